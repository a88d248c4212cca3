package batch

import (
	"regexp"
	"strconv"
	"strings"

	"galen/internal/core/apperror"
)

var (
	prefixRe = regexp.MustCompile(`^[A-Z]{3}\d{2}$`)
	bodyRe   = regexp.MustCompile(`^(\d+)([A-Z]?)$`)
)

// Range is an inclusive, contiguous run of codes sharing prefix, width and
// suffix, with Start.Number <= End.Number.
type Range struct {
	Start Code
	End   Code
}

// Len returns the number of codes the range denotes.
func (r Range) Len() int {
	return r.End.Number - r.Start.Number + 1
}

// Parsed is the result of Parse: either a single code or a range.
type Parsed struct {
	Code    Code
	Range   *Range
	IsRange bool
}

// Parse interprets a raw user string as a single batch code or a code range.
//
// The first five characters may spell an explicit prefix (three letters, two
// digits); otherwise the prefix is synthesized from the category and year.
// The body is digits plus an optional suffix letter, or two such bodies
// joined by a single dash. Anything else fails with a malformed-code error.
//
// Callers must reject blank input before calling; blank means "no code
// supplied", not a parse failure.
func Parse(raw string, category Category, year int) (Parsed, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return Parsed{}, apperror.NewMalformedCode("empty batch code")
	}

	prefix := category.DefaultPrefix(year)
	body := s
	if len(s) >= 5 && prefixRe.MatchString(s[:5]) {
		prefix = s[:5]
		body = s[5:]
	}

	parts := strings.Split(body, "-")
	switch len(parts) {
	case 1:
		num, width, suffix, err := parseBody(parts[0])
		if err != nil {
			return Parsed{}, err
		}
		return Parsed{Code: Code{Prefix: prefix, Number: num, NumberWidth: width, Suffix: suffix}}, nil

	case 2:
		startNum, startWidth, startSuffix, err := parseBody(parts[0])
		if err != nil {
			return Parsed{}, err
		}
		endNum, endWidth, endSuffix, err := parseBody(parts[1])
		if err != nil {
			return Parsed{}, err
		}
		if startSuffix != endSuffix {
			return Parsed{}, apperror.NewMalformedCode("range suffixes must match").
				WithDetail("start", parts[0]).
				WithDetail("end", parts[1])
		}
		if startNum > endNum {
			return Parsed{}, apperror.NewMalformedCode("invalid numeric range").
				WithDetail("start", startNum).
				WithDetail("end", endNum)
		}
		width := max(startWidth, endWidth, MinNumberWidth)
		return Parsed{
			IsRange: true,
			Range: &Range{
				Start: Code{Prefix: prefix, Number: startNum, NumberWidth: width, Suffix: startSuffix},
				End:   Code{Prefix: prefix, Number: endNum, NumberWidth: width, Suffix: endSuffix},
			},
		}, nil

	default:
		return Parsed{}, apperror.NewMalformedCode("batch code may contain at most one range separator").
			WithDetail("input", raw)
	}
}

// parseBody splits a code body into number, digit width and suffix.
func parseBody(body string) (num, width int, suffix string, err error) {
	m := bodyRe.FindStringSubmatch(body)
	if m == nil {
		return 0, 0, "", apperror.NewMalformedCode("batch code must be digits with an optional letter suffix").
			WithDetail("input", body)
	}
	num, convErr := strconv.Atoi(m[1])
	if convErr != nil {
		return 0, 0, "", apperror.NewMalformedCode("batch code number out of range").
			WithDetail("input", body)
	}
	return num, len(m[1]), m[2], nil
}
