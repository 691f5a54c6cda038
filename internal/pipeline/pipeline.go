package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mind-engage/safety-quiz/internal/notify"
	"github.com/mind-engage/safety-quiz/internal/quiz"
	"github.com/mind-engage/safety-quiz/internal/report"
	"github.com/mind-engage/safety-quiz/internal/results"
	"github.com/mind-engage/safety-quiz/internal/storage"
)

const pdfContentType = "application/pdf"

type Clock func() time.Time

// Pipeline runs the side effects that follow scoring. Any nil collaborator
// is skipped.
type Pipeline struct {
	Artifacts      storage.BlobStore
	Results        results.Sink
	Mailer         notify.Mailer
	Recipients     []string
	BadgeVerifyURL string
	Now            Clock
}

func New(artifacts storage.BlobStore, sink results.Sink, mailer notify.Mailer, recipients []string, badgeVerifyURL string) *Pipeline {
	return &Pipeline{
		Artifacts:      artifacts,
		Results:        sink,
		Mailer:         mailer,
		Recipients:     recipients,
		BadgeVerifyURL: badgeVerifyURL,
		Now:            time.Now,
	}
}

type Artifact struct {
	Name        string `json:"name"`
	Key         string `json:"key,omitempty"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
	data        []byte
}

// Outcome is what a completion produced. Warnings list the steps that
// failed; the score stands regardless.
type Outcome struct {
	Result    quiz.ScoredResult `json:"result"`
	Artifacts []Artifact        `json:"artifacts"`
	Recorded  bool              `json:"recorded"`
	Emailed   bool              `json:"emailed"`
	Warnings  []string          `json:"warnings,omitempty"`
}

// Data returns the rendered bytes of a, as produced in this run.
func (a Artifact) Data() []byte { return a.data }

// Complete renders the report (and the badge when passed), stores the
// artifacts, appends the audit row and sends the notification.
// s must be scored.
func (p *Pipeline) Complete(ctx context.Context, s *quiz.Session) (Outcome, error) {
	res, ok := s.Result()
	if !ok {
		return Outcome{}, fmt.Errorf("%w: session %s is not scored", quiz.ErrWrongState, s.ID)
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	ts := now()
	out := Outcome{Result: res, Artifacts: []Artifact{}}
	warn := func(step string, err error) {
		log.Printf("pipeline: session %s: %s: %v", s.ID, step, err)
		out.Warnings = append(out.Warnings, fmt.Sprintf("%s: %v", step, err))
	}

	doc := report.NewDocument(s, res, ts)
	base := doc.BaseFilename()

	if b, err := report.QuizPDF(doc); err != nil {
		warn("report", err)
	} else {
		out.Artifacts = append(out.Artifacts, Artifact{Name: report.QuizFilename(base), ContentType: pdfContentType, Size: len(b), data: b})
	}
	if res.Passed {
		if b, err := report.BadgePDF(report.BadgeFor(doc, p.BadgeVerifyURL)); err != nil {
			warn("badge", err)
		} else {
			out.Artifacts = append(out.Artifacts, Artifact{Name: report.BadgeFilename(base), ContentType: pdfContentType, Size: len(b), data: b})
		}
	}

	if p.Artifacts != nil {
		for i, a := range out.Artifacts {
			key, err := storage.Key(s.ID, a.Name)
			if err == nil {
				key, err = p.Artifacts.Put(ctx, key, bytes.NewReader(a.data))
			}
			if err != nil {
				warn("store "+a.Name, err)
				continue
			}
			out.Artifacts[i].Key = key
		}
	}

	if p.Results != nil {
		if err := p.Results.Append(ctx, results.FromSession(s, res, ts)); err != nil {
			warn("results", err)
		} else {
			out.Recorded = true
		}
	}

	if p.Mailer != nil {
		atts := make([]notify.Attachment, 0, len(out.Artifacts))
		for _, a := range out.Artifacts {
			atts = append(atts, notify.Attachment{Filename: a.Name, ContentType: a.ContentType, Data: a.data})
		}
		msg := notify.Compose(doc, p.Recipients, atts...)
		if err := p.Mailer.Send(ctx, msg); err != nil {
			warn("email", err)
		} else {
			out.Emailed = true
		}
	}
	return out, nil
}
