package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/safety-quiz/internal/auth"
	"github.com/mind-engage/safety-quiz/internal/bank"
	"github.com/mind-engage/safety-quiz/internal/notify"
	"github.com/mind-engage/safety-quiz/internal/pipeline"
	"github.com/mind-engage/safety-quiz/internal/quiz"
	"github.com/mind-engage/safety-quiz/internal/results"
	"github.com/mind-engage/safety-quiz/internal/storage"
)

const bankCSV = `topic,code,question_text,option_a,option_b,option_c,option_d,correct_label,reference
Antincendio,AI-1,Cosa si usa su un fuoco elettrico?,giusta,acqua,sabbia bagnata,nulla,A,DM 10/03/98
Antincendio,AI-2,Dove si raduna il personale?,vicino all'uscita,giusta,in ufficio,al bar,B,
Antincendio,AI-3,Chi chiama i soccorsi?,chiunque,nessuno,giusta,il capo,C,
Antincendio,AI-4,Quando si usa l'ascensore?,sempre,giusta,di notte,se c'è fumo,b,
Primo soccorso,PS-1,Numero di emergenza?,112,118,giusta,911,C,
`

type capture struct{ sent []notify.Message }

func (c *capture) Send(_ context.Context, m notify.Message) error {
	c.sent = append(c.sent, m)
	return nil
}

type testEnv struct {
	srv    *httptest.Server
	sink   results.Sink
	mailer *capture
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	banks := filepath.Join(dir, "banks")
	if err := os.MkdirAll(banks, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(banks, "generale.csv"), []byte(bankCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	h, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	dirYAML := "users:\n" +
		"  - {username: formatore, password_hash: '" + string(h) + "', role: trainer, organization: Acme}\n" +
		"  - {username: collega, password_hash: '" + string(h) + "', role: trainer, organization: Acme}\n" +
		"  - {username: revisore, password_hash: '" + string(h) + "', role: auditor, organization: Acme}\n" +
		"  - {username: esterno, password_hash: '" + string(h) + "', role: auditor, organization: Altro}\n"
	users, err := auth.ParseDirectory(strings.NewReader(dirYAML))
	if err != nil {
		t.Fatalf("directory: %v", err)
	}
	blobs, err := storage.NewFSStore(filepath.Join(dir, "artifacts"))
	if err != nil {
		t.Fatal(err)
	}
	sink := results.NewCSVSink(filepath.Join(dir, "risultati.csv"))
	mailer := &capture{}
	srv := httptest.NewServer(NewRouter(Deps{
		Auth:         auth.NewAuthService("test", time.Hour),
		Directory:    users,
		Banks:        bank.NewCatalog(banks),
		Sessions:     quiz.NewMemoryStore(),
		Pipeline:     pipeline.New(blobs, sink, mailer, []string{"rspp@example.com"}, ""),
		Artifacts:    blobs,
		Results:      sink,
		DefaultCount: 10,
		CORSOrigins:  []string{"http://localhost:5173"},
	}))
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, sink: sink, mailer: mailer}
}

func (e *testEnv) login(t *testing.T, user string) string {
	t.Helper()
	res, err := http.Post(e.srv.URL+"/auth/login", "application/json", strings.NewReader(`{"username":"`+user+`","password":"pw"}`))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d", user, res.StatusCode)
	}
	var out map[string]string
	_ = json.NewDecoder(res.Body).Decode(&out)
	return out["access_token"]
}

func (e *testEnv) do(t *testing.T, tok, method, path string, body interface{}, out interface{}) int {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req, _ := http.NewRequest(method, e.srv.URL+path, rd)
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()
	if out != nil && res.StatusCode < 300 {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return res.StatusCode
}

func TestQuizFlow(t *testing.T) {
	e := newTestEnv(t)
	tok := e.login(t, "formatore")

	var banks struct{ Banks []string }
	if code := e.do(t, tok, "GET", "/banks", nil, &banks); code != 200 || len(banks.Banks) != 1 || banks.Banks[0] != "generale" {
		t.Fatalf("banks: %d %v", code, banks)
	}
	var topics struct{ Topics []string }
	if code := e.do(t, tok, "GET", "/banks/generale/topics", nil, &topics); code != 200 || len(topics.Topics) != 2 {
		t.Fatalf("topics: %d %v", code, topics)
	}

	create := map[string]interface{}{
		"bank_id": "generale",
		"topic":   "antincendio",
		"count":   4,
		"seed":    "corso-2024",
		"participant": map[string]string{
			"name": "Mario Rossi", "email": "mario@example.com", "course": "Antincendio base", "quiz_date": "2024-05-06",
		},
	}
	var view sessionView
	if code := e.do(t, tok, "POST", "/sessions", create, &view); code != http.StatusCreated {
		t.Fatalf("create: %d", code)
	}
	if view.State != quiz.StateSampled || len(view.Questions) != 4 || view.Result != nil {
		t.Fatalf("created view = %+v", view)
	}

	var again sessionView
	e.do(t, tok, "GET", "/sessions/"+view.ID, nil, &again)
	for i := range view.Questions {
		if strings.Join(view.Questions[i].Options, "|") != strings.Join(again.Questions[i].Options, "|") {
			t.Fatalf("options reshuffled between reads")
		}
	}

	// answer three right and leave one unanswered: 75% fails
	for _, q := range view.Questions[:3] {
		label := ""
		for i, o := range q.Options {
			if o == "giusta" {
				label = quiz.Labels[i]
			}
		}
		if code := e.do(t, tok, "PUT", "/sessions/"+view.ID+"/answers", map[string]interface{}{"position": q.Position, "option": label}, nil); code != 200 {
			t.Fatalf("answer %d: %d", q.Position, code)
		}
	}
	if code := e.do(t, tok, "PUT", "/sessions/"+view.ID+"/answers", map[string]interface{}{"position": 9, "option": "A"}, nil); code != http.StatusBadRequest {
		t.Fatalf("out of range answer: %d", code)
	}
	if code := e.do(t, tok, "PUT", "/sessions/"+view.ID+"/answers", map[string]interface{}{"position": 1, "option": "E"}, nil); code != http.StatusBadRequest {
		t.Fatalf("bad label: %d", code)
	}

	var out pipeline.Outcome
	if code := e.do(t, tok, "POST", "/sessions/"+view.ID+"/correct", nil, &out); code != 200 {
		t.Fatalf("correct: %d", code)
	}
	if out.Result.Score != 3 || out.Result.Total != 4 || out.Result.Percentage != 75.0 || out.Result.Passed {
		t.Fatalf("result = %+v", out.Result)
	}
	if len(out.Artifacts) != 1 || len(out.Warnings) != 0 || !out.Recorded || !out.Emailed {
		t.Fatalf("outcome = %+v", out)
	}
	if len(e.mailer.sent) != 1 || e.mailer.sent[0].Subject != "Mario Rossi - Antincendio base - Punteggio 75.0%" {
		t.Fatalf("mail = %+v", e.mailer.sent)
	}

	if code := e.do(t, tok, "PUT", "/sessions/"+view.ID+"/answers", map[string]interface{}{"position": 4, "option": "A"}, nil); code != http.StatusConflict {
		t.Fatalf("answer after scoring: %d", code)
	}

	req, _ := http.NewRequest("GET", e.srv.URL+"/sessions/"+view.ID+"/artifacts/"+out.Artifacts[0].Name, nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	pdf, _ := io.ReadAll(res.Body)
	res.Body.Close()
	if res.StatusCode != 200 || res.Header.Get("Content-Type") != "application/pdf" || !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Fatalf("download: status %d type %q", res.StatusCode, res.Header.Get("Content-Type"))
	}

	other := e.login(t, "collega")
	if code := e.do(t, other, "GET", "/sessions/"+view.ID, nil, nil); code != http.StatusNotFound {
		t.Fatalf("foreign trainer read session: %d", code)
	}
	if code := e.do(t, other, "GET", "/sessions/"+view.ID+"/artifacts/"+out.Artifacts[0].Name, nil, nil); code != http.StatusNotFound {
		t.Fatalf("foreign trainer downloaded artifact: %d", code)
	}
	if code := e.do(t, tok, "GET", "/results", nil, nil); code != http.StatusForbidden {
		t.Fatalf("trainer listed results: %d", code)
	}

	var rows struct {
		Results []results.Row
		Count   int
	}
	auditor := e.login(t, "revisore")
	if code := e.do(t, auditor, "GET", "/results?passed=false", nil, &rows); code != 200 || rows.Count != 1 || rows.Results[0].ParticipantName != "Mario Rossi" {
		t.Fatalf("auditor results: %d %+v", code, rows)
	}
	if code := e.do(t, auditor, "GET", "/sessions/"+view.ID+"/artifacts", nil, nil); code != 200 {
		t.Fatalf("auditor artifacts: %d", code)
	}
	if code := e.do(t, e.login(t, "esterno"), "GET", "/results", nil, &rows); code != 200 || rows.Count != 0 {
		t.Fatalf("other organization sees rows: %+v", rows)
	}
	if code := e.do(t, auditor, "POST", "/sessions", create, nil); code != http.StatusForbidden {
		t.Fatalf("auditor created session: %d", code)
	}
}

func TestSessionErrors(t *testing.T) {
	e := newTestEnv(t)
	tok := e.login(t, "formatore")

	cases := []struct {
		body map[string]interface{}
		want int
	}{
		{map[string]interface{}{"bank_id": "missing"}, http.StatusNotFound},
		{map[string]interface{}{"bank_id": "generale", "topic": "Chimico"}, http.StatusUnprocessableEntity},
		{map[string]interface{}{"bank_id": "generale", "count": -1}, http.StatusBadRequest},
		{map[string]interface{}{"bank_id": ""}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		if code := e.do(t, tok, "POST", "/sessions", tc.body, nil); code != tc.want {
			t.Fatalf("create %v: status %d, want %d", tc.body, code, tc.want)
		}
	}

	var view sessionView
	if code := e.do(t, tok, "POST", "/sessions", map[string]interface{}{"bank_id": "generale", "topic": "*"}, &view); code != http.StatusCreated {
		t.Fatalf("create all topics: %d", code)
	}
	if len(view.Questions) != 5 {
		t.Fatalf("count should clamp to pool size, got %d", len(view.Questions))
	}

	var re sessionView
	if code := e.do(t, tok, "POST", "/sessions/"+view.ID+"/prepare", map[string]interface{}{"topic": "Primo soccorso", "count": 3, "seed": "x"}, &re); code != 200 {
		t.Fatalf("re-prepare: %d", code)
	}
	if len(re.Questions) != 1 || re.Topic != "Primo soccorso" || !re.Seeded {
		t.Fatalf("re-prepared view = %+v", re)
	}
	if code := e.do(t, tok, "POST", "/sessions/"+view.ID+"/prepare", map[string]interface{}{"topic": "Nessuno"}, nil); code != http.StatusUnprocessableEntity {
		t.Fatalf("failed re-prepare: %d", code)
	}
	var kept sessionView
	e.do(t, tok, "GET", "/sessions/"+view.ID, nil, &kept)
	if kept.Topic != "Primo soccorso" {
		t.Fatalf("failed prepare changed the session: %+v", kept)
	}

	if code := e.do(t, tok, "DELETE", "/sessions/"+view.ID, nil, nil); code != http.StatusNoContent {
		t.Fatalf("delete: %d", code)
	}
	if code := e.do(t, tok, "GET", "/sessions/"+view.ID, nil, nil); code != http.StatusNotFound {
		t.Fatalf("deleted session still readable: %d", code)
	}
	if code := e.do(t, "", "GET", "/banks", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("anonymous banks: %d", code)
	}
}

func TestCorrectTwiceRecordsOnce(t *testing.T) {
	e := newTestEnv(t)
	tok := e.login(t, "formatore")

	var view sessionView
	body := map[string]interface{}{"bank_id": "generale", "topic": "*", "seed": "retry"}
	if code := e.do(t, tok, "POST", "/sessions", body, &view); code != http.StatusCreated {
		t.Fatalf("create: %d", code)
	}
	var first pipeline.Outcome
	if code := e.do(t, tok, "POST", "/sessions/"+view.ID+"/correct", nil, &first); code != 200 {
		t.Fatalf("correct: %d", code)
	}
	for i := 0; i < 2; i++ {
		if code := e.do(t, tok, "POST", "/sessions/"+view.ID+"/correct", nil, nil); code != http.StatusConflict {
			t.Fatalf("repeated correct %d: status %d", i, code)
		}
	}

	rows, err := e.sink.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || len(e.mailer.sent) != 1 {
		t.Fatalf("audit rows=%d emails=%d, want 1 each", len(rows), len(e.mailer.sent))
	}

	var scored sessionView
	if code := e.do(t, tok, "GET", "/sessions/"+view.ID, nil, &scored); code != 200 {
		t.Fatalf("get: %d", code)
	}
	if scored.Result == nil || scored.Result.Percentage != first.Result.Percentage {
		t.Fatalf("stored result = %+v", scored.Result)
	}

	// a new quiz on the same session completes again
	if code := e.do(t, tok, "POST", "/sessions/"+view.ID+"/prepare", map[string]interface{}{"topic": "*", "seed": "bis"}, nil); code != 200 {
		t.Fatalf("re-prepare: %d", code)
	}
	if code := e.do(t, tok, "POST", "/sessions/"+view.ID+"/correct", nil, nil); code != 200 {
		t.Fatalf("correct after re-prepare: %d", code)
	}
	if len(e.mailer.sent) != 2 {
		t.Fatalf("emails after re-prepare = %d", len(e.mailer.sent))
	}
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	for _, p := range []string{"/healthz", "/readyz"} {
		if code := e.do(t, "", "GET", p, nil, nil); code != 200 {
			t.Fatalf("%s: %d", p, code)
		}
	}
}
