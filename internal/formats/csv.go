package formats

import (
	"encoding/csv"
	"io"
)

// WriteGlossaryCSV writes terms as two column rows, one term per line.
func WriteGlossaryCSV(w io.Writer, terms []Term) error {
	cw := csv.NewWriter(w)
	for _, t := range terms {
		if err := cw.Write([]string{t.Source, t.Target}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ParseGlossaryCSV reads source/target pairs. Extra columns are ignored,
// rows without a target are skipped.
func ParseGlossaryCSV(r io.Reader) ([]Term, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	var terms []Term
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) < 2 || record[0] == "" || record[1] == "" {
			continue
		}
		terms = append(terms, Term{Source: record[0], Target: record[1]})
	}
	return terms, nil
}
