package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/a3tai/traprange/internal/pdf/errors"
	"github.com/a3tai/traprange/internal/pdf/table"
)

// ExtractionFlags carries the raw page and line selections given on the
// command line or in an MCP tool call. Page indices are zero-based.
type ExtractionFlags struct {
	Pages       string // "0,2"
	ExceptPages string // "1"
	ExceptLines string // "0,1,-1,4@8": lines 0, 1 and the last everywhere, line 4 on page 8
	Password    string
}

// ToOptions parses the selections into table.Options. Any malformed token
// is reported as a configuration error.
func (f ExtractionFlags) ToOptions() (table.Options, error) {
	b := table.NewOptionsBuilder()

	pages, err := ParseIntList(f.Pages)
	if err != nil {
		return table.Options{}, flagError("pages", f.Pages, err)
	}
	for _, p := range pages {
		b.AddPage(p)
	}

	except, err := ParseIntList(f.ExceptPages)
	if err != nil {
		return table.Options{}, flagError("except pages", f.ExceptPages, err)
	}
	for _, p := range except {
		b.ExceptPage(p)
	}

	all, perPage, err := ParseExceptLines(f.ExceptLines)
	if err != nil {
		return table.Options{}, flagError("except lines", f.ExceptLines, err)
	}
	b.ExceptLine(all...)
	for page, lines := range perPage {
		b.ExceptLineOnPage(page, lines...)
	}

	return b.Build(), nil
}

// PageList parses only the page selection, for operations that take no
// line exclusions.
func (f ExtractionFlags) PageList() ([]int, error) {
	pages, err := ParseIntList(f.Pages)
	if err != nil {
		return nil, flagError("pages", f.Pages, err)
	}
	return pages, nil
}

func flagError(name, value string, err error) error {
	return errors.WrapError(errors.ErrorTypeConfiguration,
		fmt.Sprintf("invalid %s %q", name, value), err)
}

// ParseIntList parses a comma-separated list of integers. An empty string
// yields an empty list; an empty token is an error.
func ParseIntList(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	tokens := strings.Split(s, ",")
	out := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		n, err := parseInt(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// ParseExceptLines parses the except-lines syntax: comma-separated line
// indices, each optionally suffixed with @page to restrict it to one page.
// Negative indices count from the last row.
func ParseExceptLines(s string) (all []int, perPage map[int][]int, err error) {
	perPage = map[int][]int{}
	if strings.TrimSpace(s) == "" {
		return nil, perPage, nil
	}
	for _, tok := range strings.Split(s, ",") {
		parts := strings.Split(tok, "@")
		switch len(parts) {
		case 1:
			line, err := parseInt(parts[0])
			if err != nil {
				return nil, nil, err
			}
			all = append(all, line)
		case 2:
			line, err := parseInt(parts[0])
			if err != nil {
				return nil, nil, err
			}
			page, err := parseInt(parts[1])
			if err != nil {
				return nil, nil, err
			}
			perPage[page] = append(perPage[page], line)
		default:
			return nil, nil, fmt.Errorf("token %q has more than one '@'", strings.TrimSpace(tok))
		}
	}
	return all, perPage, nil
}

func parseInt(tok string) (int, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return 0, fmt.Errorf("empty value")
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", tok)
	}
	return n, nil
}
