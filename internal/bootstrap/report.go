package bootstrap

import (
	"fmt"
	"io"
	"strings"
)

// Report writes rows to w as a tuple list followed by a newline:
//
//	[(1, 'Alice'), (2, 'Bob')]
func Report(w io.Writer, rows []Row) error {
	if _, err := fmt.Fprintln(w, FormatRows(rows)); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

// FormatRows renders rows as a tuple list without a trailing newline.
func FormatRows(rows []Row) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, r := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(r.String())
	}
	b.WriteByte(']')
	return b.String()
}

var textQuoter = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\t", `\t`)

func quoteText(s string) string {
	return "'" + textQuoter.Replace(s) + "'"
}
