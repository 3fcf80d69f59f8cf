package jacoco

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// Counter kinds interpreted by the parser. JaCoCo emits more kinds
// (INSTRUCTION, COMPLEXITY, METHOD, CLASS) but only these two matter here.
const (
	CounterLine   = "LINE"
	CounterBranch = "BRANCH"
)

// Count decodes a counter attribute defensively: a missing, empty or
// non-numeric value becomes 0 instead of failing the whole parse.
type Count int

// UnmarshalXMLAttr implements xml.UnmarshalerAttr.
func (c *Count) UnmarshalXMLAttr(attr xml.Attr) error {
	n, err := strconv.Atoi(strings.TrimSpace(attr.Value))
	if err != nil {
		*c = 0
		return nil
	}
	*c = Count(n)
	return nil
}

// Report is the root element of a JaCoCo XML coverage report.
type Report struct {
	XMLName  xml.Name  `xml:"report"`
	Name     string    `xml:"name,attr"`
	Packages []Package `xml:"package"`
	Groups   []Group   `xml:"group"`
	Counters []Counter `xml:"counter"`
}

// Group nests packages in aggregate (multi-module) reports.
type Group struct {
	Name     string    `xml:"name,attr"`
	Packages []Package `xml:"package"`
	Groups   []Group   `xml:"group"`
	Counters []Counter `xml:"counter"`
}

// Package groups the classes of one Java package. The name attribute uses
// path-style separators (com/acme) and may be empty for the default package.
type Package struct {
	Name        string       `xml:"name,attr"`
	Classes     []Class      `xml:"class"`
	SourceFiles []SourceFile `xml:"sourcefile"`
	Counters    []Counter    `xml:"counter"`
}

// Class carries per-class counters and the methods declared in it.
type Class struct {
	Name           string    `xml:"name,attr"`
	SourceFileName string    `xml:"sourcefilename,attr"`
	Methods        []Method  `xml:"method"`
	Counters       []Counter `xml:"counter"`
}

// Method carries per-method counters and, in some report layouts, per-line
// coverage entries.
type Method struct {
	Name     string    `xml:"name,attr"`
	Desc     string    `xml:"desc,attr"`
	Line     Count     `xml:"line,attr"`
	Lines    []Line    `xml:"line"`
	Counters []Counter `xml:"counter"`
}

// SourceFile carries per-line coverage for one source file.
type SourceFile struct {
	Name     string    `xml:"name,attr"`
	Lines    []Line    `xml:"line"`
	Counters []Counter `xml:"counter"`
}

// Line is one source line: nr is the 1-based line number, ci/mi are covered
// and missed instructions, cb/mb are covered and missed branches.
type Line struct {
	Nr Count `xml:"nr,attr"`
	Mi Count `xml:"mi,attr"`
	Ci Count `xml:"ci,attr"`
	Mb Count `xml:"mb,attr"`
	Cb Count `xml:"cb,attr"`
}

// Counter is a (covered, missed) pair for one coverage kind.
type Counter struct {
	Type    string `xml:"type,attr"`
	Missed  Count  `xml:"missed,attr"`
	Covered Count  `xml:"covered,attr"`
}
