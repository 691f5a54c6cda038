package bank

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/mind-engage/safety-quiz/internal/quiz"
)

const sampleCSV = `topic,code,question_text,option_a,option_b,option_c,option_d,correct_label,reference
Antincendio,AI-01,Quale estintore per quadri elettrici?,Acqua,CO2,Schiuma,Sabbia,B,DM 10/03/1998
Antincendio,AI-02,Numero di emergenza?,112,113,118,115,a,
Primo soccorso,PS-01,Posizione laterale di sicurezza serve a?,Respirare,Correre,Mangiare,Dormire,A,
,,,,,,,,
`

func TestReadCSV(t *testing.T) {
	b, err := ReadCSV("generale", strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(b.Records) != 3 {
		t.Fatalf("expected 3 records (blank row skipped), got %d", len(b.Records))
	}
	first := b.Records[0]
	want := quiz.Record{
		Topic:        "Antincendio",
		Code:         "AI-01",
		Text:         "Quale estintore per quadri elettrici?",
		Options:      [4]string{"Acqua", "CO2", "Schiuma", "Sabbia"},
		CorrectLabel: "B",
		Reference:    "DM 10/03/1998",
	}
	if !reflect.DeepEqual(first, want) {
		t.Fatalf("first record = %+v", first)
	}
	if got := b.Topics(); !reflect.DeepEqual(got, []string{"Antincendio", "Primo soccorso"}) {
		t.Fatalf("topics = %v", got)
	}
}

func TestReadCSVItalianHeaders(t *testing.T) {
	csv := "Argomento,Codice,Domanda,Opzione A,Opzione B,Opzione C,Opzione D,Risposta corretta\n" +
		"Rischio elettrico,RE-1,Tensione di sicurezza?,50V,230V,400V,12kV,A\n"
	b, err := ReadCSV("it", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(b.Records) != 1 || b.Records[0].Options[0] != "50V" || b.Records[0].Reference != "" {
		t.Fatalf("unexpected records: %+v", b.Records)
	}
}

func TestReadCSVMissingColumns(t *testing.T) {
	_, err := ReadCSV("broken", strings.NewReader("topic,code,question_text\nA,1,Q\n"))
	if !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("expected missing columns, got %v", err)
	}
	if !strings.Contains(err.Error(), "option_a") || !strings.Contains(err.Error(), "correct_label") {
		t.Fatalf("error should list missing columns: %v", err)
	}
	if _, err := ReadCSV("empty", strings.NewReader("")); !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("expected missing columns for empty file, got %v", err)
	}
}

func TestPoolEmptyTopic(t *testing.T) {
	b, _ := ReadCSV("generale", strings.NewReader(sampleCSV))
	if _, err := b.Pool("Lavori in quota"); !errors.Is(err, quiz.ErrEmptyPool) {
		t.Fatalf("expected empty pool, got %v", err)
	}
	pool, err := b.Pool("antincendio")
	if err != nil || len(pool) != 2 {
		t.Fatalf("pool = %d, err = %v", len(pool), err)
	}
}

func writeXLSX(t *testing.T, path string, rows [][]interface{}) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save xlsx: %v", err)
	}
}

func TestCatalogListAndLoad(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "generale.csv"), []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	writeXLSX(t, filepath.Join(dir, "carrellisti.xlsx"), [][]interface{}{
		{"topic", "code", "question_text", "option_a", "option_b", "option_c", "option_d", "correct_label"},
		{"Carrelli", "CE-1", "Portata massima?", "Targa", "A occhio", "Doppia", "Nessuna", "A"},
		{"Carrelli", "CE-2", "Cintura?", "Sempre", "Mai", "A volte", "Solo fuori", "A"},
	})
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write txt: %v", err)
	}

	c := NewCatalog(dir)
	ids, err := c.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"carrellisti", "generale"}) {
		t.Fatalf("ids = %v", ids)
	}

	b, err := c.Load("carrellisti")
	if err != nil {
		t.Fatalf("load xlsx: %v", err)
	}
	if b.ID != "carrellisti" || len(b.Records) != 2 || b.Records[1].Options[3] != "Solo fuori" {
		t.Fatalf("unexpected xlsx bank: %+v", b)
	}

	if _, err := c.Load("../etc"); !errors.Is(err, ErrBankNotFound) {
		t.Fatalf("traversal: %v", err)
	}
	if _, err := c.Load("missing"); !errors.Is(err, ErrBankNotFound) {
		t.Fatalf("missing: %v", err)
	}
}

func TestCatalogDuplicateAndUpperCaseExtensions(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "generale.csv"), []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	writeXLSX(t, filepath.Join(dir, "generale.xlsx"), [][]interface{}{
		{"topic", "code", "question_text", "option_a", "option_b", "option_c", "option_d", "correct_label"},
		{"Carrelli", "CE-1", "Portata massima?", "Targa", "A occhio", "Doppia", "Nessuna", "A"},
	})
	if err := os.WriteFile(filepath.Join(dir, "Cantieri.CSV"), []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("write upper-case csv: %v", err)
	}

	c := NewCatalog(dir)
	ids, err := c.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"Cantieri", "generale"}) {
		t.Fatalf("ids = %v", ids)
	}
	for _, id := range ids {
		b, err := c.Load(id)
		if err != nil {
			t.Fatalf("listed bank %q does not load: %v", id, err)
		}
		// the csv wins over the xlsx with the same id
		if len(b.Records) != 3 {
			t.Fatalf("bank %q has %d records, want the csv's 3", id, len(b.Records))
		}
	}
}
