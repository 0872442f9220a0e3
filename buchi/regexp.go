package buchi

import "regexp"

var (
	stateLine = regexp.MustCompile(`^(\w+)\s*:\s*(/\*.*\*/)?$`)
	guardLine = regexp.MustCompile(`^::\s*(.+?)\s*->\s*goto\s+(\w+)\s*;?$`)
	skipWord  = regexp.MustCompile(`\bskip\b`)
)
