package http

import (
	xutil "StockCast/pkg/util"
)

// ParseIntDefault parses s as an int or returns def if empty/invalid.
func ParseIntDefault(s string, def int) int { return xutil.ParseIntDefault(s, def) }
