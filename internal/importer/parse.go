package importer

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Entry is one vocabulary item read from a file
type Entry struct {
	Word         string `json:"word"`
	Pinyin       string `json:"pinyin"`
	PartOfSpeech string `json:"part_of_speech"`
	Meaning      string `json:"meaning"`
	Chapter      int    `json:"chapter"`
	Source       string `json:"source"`
}

// Parsed holds the entries of a file and the rows that could not be read
type Parsed struct {
	Entries []Entry
	Errors  []string
}

// ParseFile reads all entries from the file named in cfg
func ParseFile(cfg Config) (*Parsed, error) {
	format := cfg.Format
	if format == "" {
		var err error
		if format, err = DetectFormat(cfg.FilePath); err != nil {
			return nil, err
		}
	}

	file, err := os.Open(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open vocabulary file: %w", err)
	}
	defer file.Close()

	return Parse(file, format, cfg)
}

// Parse reads entries in the given format
func Parse(r io.Reader, format Format, cfg Config) (*Parsed, error) {
	var (
		parsed *Parsed
		err    error
	)
	switch format {
	case FormatXLSX:
		parsed, err = parseXLSX(r, cfg)
	case FormatCSV:
		parsed, err = parseCSV(r, cfg)
	case FormatJSON:
		parsed, err = parseJSON(r)
	case FormatText:
		parsed, err = parseText(r, cfg.Chapter)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, err
	}

	for i := range parsed.Entries {
		e := &parsed.Entries[i]
		if e.Chapter == 0 {
			e.Chapter = cfg.Chapter
		}
		if e.Source == "" {
			e.Source = cfg.Source
		}
	}
	return parsed, nil
}

func parseXLSX(r io.Reader, cfg Config) (*Parsed, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := cfg.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	parsed := &Parsed{}
	for i, row := range rows {
		if i < cfg.StartRow-1 {
			continue
		}
		parsed.addRow(row, cfg, i+1)
	}
	return parsed, nil
}

func parseCSV(r io.Reader, cfg Config) (*Parsed, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	parsed := &Parsed{}
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rowNum++
		if rowNum < cfg.StartRow {
			continue
		}
		parsed.addRow(row, cfg, rowNum)
	}
	return parsed, nil
}

func (p *Parsed) addRow(row []string, cfg Config, rowNum int) {
	if isBlank(row) {
		return
	}
	e := Entry{
		Word:         cell(row, cfg.WordColumn),
		Pinyin:       cell(row, cfg.PinyinColumn),
		PartOfSpeech: NormalizePartOfSpeech(cell(row, cfg.POSColumn)),
		Meaning:      cell(row, cfg.MeaningColumn),
	}
	if ch := cell(row, cfg.ChapterColumn); ch != "" {
		n, err := strconv.Atoi(ch)
		if err != nil {
			p.Errors = append(p.Errors, fmt.Sprintf("Row %d: invalid chapter %q", rowNum, ch))
			return
		}
		e.Chapter = n
	}
	if err := e.validate(); err != nil {
		p.Errors = append(p.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		return
	}
	p.Entries = append(p.Entries, e)
}

func parseJSON(r io.Reader) (*Parsed, error) {
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode vocabulary JSON: %w", err)
	}

	parsed := &Parsed{}
	for i, e := range entries {
		e.Word = strings.TrimSpace(e.Word)
		e.Pinyin = strings.TrimSpace(e.Pinyin)
		e.Meaning = strings.TrimSpace(e.Meaning)
		e.PartOfSpeech = NormalizePartOfSpeech(e.PartOfSpeech)
		if err := e.validate(); err != nil {
			parsed.Errors = append(parsed.Errors, fmt.Sprintf("Entry %d: %v", i+1, err))
			continue
		}
		parsed.Entries = append(parsed.Entries, e)
	}
	return parsed, nil
}

const pinyinSyllable = `[a-zA-Züǖǘǚǜāáǎàēéěèīíǐìōóǒòūúǔù]+`

var (
	numberedLine = regexp.MustCompile(`^\d+\.\s+\S`)
	pipeHead     = regexp.MustCompile(`^\d+\.\s*(.+)$`)
	spacedLine   = regexp.MustCompile(`(?i)^\d+\.\s*(\S+)\s+(` + pinyinSyllable + `(?:\s+` + pinyinSyllable + `)?)\s+((?:pron|adj|v|n|adv|prep|conj|part|num|m|mw|interj)\.?)\s*(.+)$`)
	noPOSLine    = regexp.MustCompile(`(?i)^\d+\.\s*(\S+)\s+(` + pinyinSyllable + `(?:\s+` + pinyinSyllable + `)?)\s+(.+)$`)
	chapterLine  = regexp.MustCompile(`(?i)^#*\s*(?:chapter|lesson|第)\s*(\d+)`)
)

// parseText reads numbered HSK list lines. A "Chapter N" heading switches
// the chapter of the lines that follow it.
func parseText(r io.Reader, chapter int) (*Parsed, error) {
	parsed := &Parsed{}
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if m := chapterLine.FindStringSubmatch(line); m != nil {
			chapter, _ = strconv.Atoi(m[1])
			continue
		}
		if !numberedLine.MatchString(line) {
			continue
		}
		e, ok := ParseLine(line)
		if !ok {
			parsed.Errors = append(parsed.Errors, fmt.Sprintf("Line %d: unrecognised entry %q", lineNum, line))
			continue
		}
		e.Chapter = chapter
		parsed.Entries = append(parsed.Entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading text: %w", err)
	}
	return parsed, nil
}

// ParseLine parses one numbered list line in either of the forms
//
//	1. 谢谢 | xièxie | v. | to thank
//	1. 你 nǐ pron. you
func ParseLine(line string) (Entry, bool) {
	line = strings.TrimSpace(line)

	if strings.Contains(line, "|") {
		parts := strings.Split(line, "|")
		if len(parts) >= 3 {
			if m := pipeHead.FindStringSubmatch(strings.TrimSpace(parts[0])); m != nil {
				e := Entry{
					Word:         strings.TrimSpace(m[1]),
					Pinyin:       strings.TrimSpace(parts[1]),
					PartOfSpeech: PartOfSpeechOther,
					Meaning:      strings.TrimSpace(parts[2]),
				}
				if len(parts) >= 4 {
					e.PartOfSpeech = NormalizePartOfSpeech(parts[2])
					e.Meaning = strings.TrimSpace(parts[3])
				}
				if e.Word != "" && e.Pinyin != "" {
					return e, true
				}
			}
		}
	}

	if m := spacedLine.FindStringSubmatch(line); m != nil {
		return Entry{
			Word:         m[1],
			Pinyin:       m[2],
			PartOfSpeech: NormalizePartOfSpeech(m[3]),
			Meaning:      strings.TrimSpace(m[4]),
		}, true
	}

	if m := noPOSLine.FindStringSubmatch(line); m != nil {
		return Entry{
			Word:         m[1],
			Pinyin:       m[2],
			PartOfSpeech: PartOfSpeechOther,
			Meaning:      strings.TrimSpace(m[3]),
		}, true
	}
	return Entry{}, false
}

func (e Entry) validate() error {
	if e.Word == "" {
		return fmt.Errorf("word cannot be empty")
	}
	if e.Pinyin == "" {
		return fmt.Errorf("pinyin cannot be empty")
	}
	if e.Meaning == "" {
		return fmt.Errorf("meaning cannot be empty")
	}
	return nil
}

func cell(row []string, column string) string {
	if column == "" {
		return ""
	}
	if idx := columnToIndex(column); idx >= 0 && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// columnToIndex converts an Excel column letter to a 0-based index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
