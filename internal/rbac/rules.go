package rbac

const (
	PermQuizPrepare      = "quiz:prepare"
	PermQuizAnswer       = "quiz:answer"
	PermQuizCorrect      = "quiz:correct"
	PermArtifactDownload = "artifact:download"
	PermResultsList      = "results:list"
	PermBanksView        = "banks:view"
)

// RolePermissions is the default policy.
var RolePermissions = map[string][]string{
	"trainer": {
		PermBanksView,
		"quiz:*",
		PermArtifactDownload,
	},
	"auditor": {
		PermResultsList,
		PermArtifactDownload,
	},
	"admin": {
		"*",
	},
}
