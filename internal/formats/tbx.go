package formats

import (
	"encoding/xml"
	"io"
)

const tbxDoctype = `<!DOCTYPE martif PUBLIC "ISO 12200:1999A//DTD MARTIF core (DXFcdV04)//EN" "TBXcdv04.dtd">` + "\n"

// Marshal and unmarshal use separate structs: the encoder needs the
// literal "xml:lang" attribute name while the decoder sees the expanded
// namespace and matches on the local name only.
type tbxMartif struct {
	XMLName xml.Name   `xml:"martif"`
	Type    string     `xml:"type,attr"`
	Lang    string     `xml:"xml:lang,attr"`
	Source  string     `xml:"martifHeader>fileDesc>sourceDesc>p"`
	Entries []tbxEntry `xml:"text>body>termEntry"`
}

type tbxEntry struct {
	LangSets []tbxLangSet `xml:"langSet"`
}

type tbxLangSet struct {
	Lang string `xml:"xml:lang,attr"`
	Term string `xml:"tig>term"`
}

// WriteGlossaryTBX writes terms as a TBX martif document. Each entry has
// an English source langSet and a target langSet for the given language.
func WriteGlossaryTBX(w io.Writer, langCode string, terms []Term) error {
	doc := tbxMartif{
		Type:   "TBX",
		Lang:   "en",
		Source: "Weblate glossary",
	}
	for _, t := range terms {
		doc.Entries = append(doc.Entries, tbxEntry{LangSets: []tbxLangSet{
			{Lang: "en", Term: t.Source},
			{Lang: langCode, Term: t.Target},
		}})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	if _, err := io.WriteString(w, tbxDoctype); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

type tbxMartifIn struct {
	XMLName xml.Name     `xml:"martif"`
	Entries []tbxEntryIn `xml:"text>body>termEntry"`
}

type tbxEntryIn struct {
	LangSets []tbxLangSetIn `xml:"langSet"`
}

type tbxLangSetIn struct {
	Lang string `xml:"lang,attr"`
	Term string `xml:"tig>term"`
}

// ParseGlossaryTBX extracts terms from a TBX document. The first langSet
// of an entry is taken as source, the last as target.
func ParseGlossaryTBX(r io.Reader) ([]Term, error) {
	var doc tbxMartifIn
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	var terms []Term
	for _, entry := range doc.Entries {
		if len(entry.LangSets) < 2 {
			continue
		}
		source := entry.LangSets[0].Term
		target := entry.LangSets[len(entry.LangSets)-1].Term
		if source == "" || target == "" {
			continue
		}
		terms = append(terms, Term{Source: source, Target: target})
	}
	return terms, nil
}
