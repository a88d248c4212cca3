package batch

// Expand enumerates the concrete codes a parse result denotes, in strictly
// ascending numeric order. A single code expands to itself; a range expands
// to End.Number-Start.Number+1 codes sharing prefix, width and suffix.
//
// No upper bound is enforced here; callers apply their own cap before
// fanning the result out into storage.
func Expand(p Parsed) []Code {
	if !p.IsRange {
		return []Code{p.Code}
	}

	r := p.Range
	codes := make([]Code, 0, r.Len())
	for n := r.Start.Number; n <= r.End.Number; n++ {
		codes = append(codes, Code{
			Prefix:      r.Start.Prefix,
			Number:      n,
			NumberWidth: r.Start.NumberWidth,
			Suffix:      r.Start.Suffix,
		})
	}
	return codes
}
