package formats

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// File is a gettext PO catalog. The header entry is kept separate from
// the messages and exposed through Header and SetHeader.
type File struct {
	HeaderComments []string
	Messages       []*Message

	headerOrder []string
	headers     map[string]string
}

// NewFile returns an empty catalog carrying the standard MIME headers.
func NewFile() *File {
	f := &File{headers: map[string]string{}}
	f.SetHeader("MIME-Version", "1.0")
	f.SetHeader("Content-Type", "text/plain; charset=UTF-8")
	f.SetHeader("Content-Transfer-Encoding", "8bit")
	return f
}

// Header returns the value of a header field, empty when unset.
func (f *File) Header(key string) string {
	return f.headers[key]
}

// SetHeader sets a header field, preserving insertion order for new keys.
func (f *File) SetHeader(key, value string) {
	if f.headers == nil {
		f.headers = map[string]string{}
	}
	if _, ok := f.headers[key]; !ok {
		f.headerOrder = append(f.headerOrder, key)
	}
	f.headers[key] = value
}

// Add appends a message to the catalog.
func (f *File) Add(m *Message) {
	f.Messages = append(f.Messages, m)
}

// Find returns the message with the given context and id, nil when absent.
func (f *File) Find(context, id string) *Message {
	for _, m := range f.Messages {
		if m.Context == context && m.ID == id {
			return m
		}
	}
	return nil
}

// ParsePO reads a PO catalog. Obsolete (#~) entries are dropped.
func ParsePO(r io.Reader) (*File, error) {
	f := &File{headers: map[string]string{}}
	p := &poParser{file: f}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineno := 0
	for scanner.Scan() {
		lineno++
		if err := p.line(scanner.Text()); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	p.flush()
	return f, nil
}

type poParser struct {
	file    *File
	current *Message
	// last points at the string field continuation lines append to
	last    *string
	strIdx  int
	inStr   bool
	sawHead bool
}

func (p *poParser) line(raw string) error {
	line := strings.TrimSpace(raw)
	switch {
	case line == "":
		p.flush()
	case strings.HasPrefix(line, "#~"):
		// obsolete entry
		p.flush()
	case strings.HasPrefix(line, "#"):
		if p.inStr {
			p.flush()
		}
		p.comment(line)
	case strings.HasPrefix(line, "msgctxt "):
		if p.inStr {
			p.flush()
		}
		p.ensure()
		p.current.Context = unescapePO(quoted(line[8:]))
		p.last = &p.current.Context
	case strings.HasPrefix(line, "msgid "):
		if p.inStr {
			p.flush()
		}
		p.ensure()
		p.current.ID = unescapePO(quoted(line[6:]))
		p.last = &p.current.ID
	case strings.HasPrefix(line, "msgid_plural "):
		p.ensure()
		p.current.IDPlural = unescapePO(quoted(line[13:]))
		p.last = &p.current.IDPlural
	case strings.HasPrefix(line, "msgstr["):
		end := strings.Index(line, "]")
		if end < 0 {
			return fmt.Errorf("malformed msgstr index in %q", line)
		}
		idx, err := strconv.Atoi(line[7:end])
		if err != nil {
			return fmt.Errorf("malformed msgstr index in %q", line)
		}
		p.ensure()
		for len(p.current.Str) <= idx {
			p.current.Str = append(p.current.Str, "")
		}
		p.current.Str[idx] = unescapePO(quoted(line[end+1:]))
		p.strIdx = idx
		p.inStr = true
		p.last = nil
	case strings.HasPrefix(line, "msgstr "):
		p.ensure()
		p.current.Str = []string{unescapePO(quoted(line[7:]))}
		p.strIdx = 0
		p.inStr = true
		p.last = nil
	case strings.HasPrefix(line, "\""):
		if p.current == nil {
			return fmt.Errorf("stray string %q", line)
		}
		s := unescapePO(quoted(line))
		if p.inStr {
			p.current.Str[p.strIdx] += s
		} else if p.last != nil {
			*p.last += s
		}
	default:
		return fmt.Errorf("unexpected input %q", line)
	}
	return nil
}

func (p *poParser) comment(line string) {
	p.ensure()
	switch {
	case strings.HasPrefix(line, "#."):
		p.current.Extracted = append(p.current.Extracted, strings.TrimSpace(line[2:]))
	case strings.HasPrefix(line, "#:"):
		for _, loc := range strings.Fields(line[2:]) {
			p.current.Locations = append(p.current.Locations, loc)
		}
	case strings.HasPrefix(line, "#,"):
		for _, flag := range strings.Split(line[2:], ",") {
			if flag = strings.TrimSpace(flag); flag != "" {
				p.current.Flags = append(p.current.Flags, flag)
			}
		}
	case strings.HasPrefix(line, "#|"):
		// previous msgid, not retained
	default:
		p.current.Comments = append(p.current.Comments, strings.TrimSpace(line[1:]))
	}
}

func (p *poParser) ensure() {
	if p.current == nil {
		p.current = &Message{}
		p.inStr = false
	}
}

func (p *poParser) flush() {
	m := p.current
	p.current = nil
	p.inStr = false
	p.last = nil
	if m == nil {
		return
	}
	if m.ID == "" && m.Context == "" && !p.sawHead {
		// header entry
		p.sawHead = true
		p.file.HeaderComments = m.Comments
		if len(m.Str) > 0 {
			p.parseHeader(m.Str[0])
		}
		return
	}
	if m.ID == "" {
		return
	}
	p.file.Messages = append(p.file.Messages, m)
}

func (p *poParser) parseHeader(block string) {
	for _, line := range strings.Split(block, "\n") {
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		p.file.SetHeader(strings.TrimSpace(key), strings.TrimSpace(value))
	}
}

// quoted strips the surrounding double quotes of a PO string chunk.
func quoted(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "\"") && strings.HasSuffix(s, "\"") && len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}

func unescapePO(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func escapePO(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}

// WritePO serializes the catalog, header entry first.
func (f *File) WritePO(w io.Writer) error {
	bw := bufio.NewWriter(w)

	for _, c := range f.HeaderComments {
		fmt.Fprintf(bw, "# %s\n", c)
	}
	fmt.Fprintln(bw, "msgid \"\"")
	fmt.Fprintln(bw, "msgstr \"\"")
	for _, key := range f.headerKeys() {
		fmt.Fprintf(bw, "\"%s: %s\\n\"\n", key, escapePO(f.headers[key]))
	}

	for _, m := range f.Messages {
		fmt.Fprintln(bw)
		for _, c := range m.Comments {
			fmt.Fprintf(bw, "# %s\n", c)
		}
		for _, c := range m.Extracted {
			fmt.Fprintf(bw, "#. %s\n", c)
		}
		for _, loc := range m.Locations {
			fmt.Fprintf(bw, "#: %s\n", loc)
		}
		if len(m.Flags) > 0 {
			fmt.Fprintf(bw, "#, %s\n", strings.Join(m.Flags, ", "))
		}
		if m.Context != "" {
			writePOString(bw, "msgctxt", m.Context)
		}
		writePOString(bw, "msgid", m.ID)
		if m.Plural() {
			writePOString(bw, "msgid_plural", m.IDPlural)
			for i, s := range m.Str {
				writePOString(bw, fmt.Sprintf("msgstr[%d]", i), s)
			}
		} else {
			var s string
			if len(m.Str) > 0 {
				s = m.Str[0]
			}
			writePOString(bw, "msgstr", s)
		}
	}
	return bw.Flush()
}

// headerKeys returns the header fields, known gettext fields in their
// conventional order followed by the rest as inserted.
func (f *File) headerKeys() []string {
	rank := map[string]int{}
	for i, key := range headerOrder {
		rank[key] = i
	}
	keys := append([]string(nil), f.headerOrder...)
	sort.SliceStable(keys, func(i, j int) bool {
		ri, iok := rank[keys[i]]
		rj, jok := rank[keys[j]]
		if iok && jok {
			return ri < rj
		}
		return iok && !jok
	})
	return keys
}

var headerOrder = []string{
	"Project-Id-Version",
	"Report-Msgid-Bugs-To",
	"POT-Creation-Date",
	"PO-Revision-Date",
	"Last-Translator",
	"Language-Team",
	"Language",
	"MIME-Version",
	"Content-Type",
	"Content-Transfer-Encoding",
	"Plural-Forms",
	"X-Generator",
}

func writePOString(w io.Writer, keyword, s string) {
	if !strings.Contains(s, "\n") {
		fmt.Fprintf(w, "%s \"%s\"\n", keyword, escapePO(s))
		return
	}
	fmt.Fprintf(w, "%s \"\"\n", keyword)
	parts := strings.SplitAfter(s, "\n")
	for _, part := range parts {
		if part == "" {
			continue
		}
		fmt.Fprintf(w, "\"%s\"\n", escapePO(part))
	}
}

// AddTerms appends glossary terms as singular messages.
func (f *File) AddTerms(terms []Term) {
	for _, t := range terms {
		f.Add(&Message{ID: t.Source, Str: []string{t.Target}})
	}
}

// ParseGlossaryPO extracts glossary terms from a PO catalog, skipping
// untranslated entries.
func ParseGlossaryPO(r io.Reader) ([]Term, error) {
	f, err := ParsePO(r)
	if err != nil {
		return nil, err
	}
	var terms []Term
	for _, m := range f.Messages {
		if !m.Translated() {
			continue
		}
		terms = append(terms, Term{Source: m.ID, Target: m.Str[0]})
	}
	return terms, nil
}
