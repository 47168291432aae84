// Package ingestion turns raw CSV feed text into ordered telemetry records:
// tokenize each line, normalize fields into a record, drop malformed rows,
// sort by timestamp.
package ingestion

import "strings"

// TokenizeLine splits one CSV line (no trailing newline) into its fields.
// A field wrapped in double quotes may contain commas; a doubled quote
// inside a quoted field is a literal quote. Malformed quoting never fails:
// the split is best-effort so one bad row cannot abort the batch.
// An empty line yields no fields.
func TokenizeLine(line string) []string {
	if line == "" {
		return nil
	}

	var fields []string
	var sb strings.Builder
	i, n := 0, len(line)

	for {
		sb.Reset()
		if i < n && line[i] == '"' {
			i++
			for i < n {
				c := line[i]
				if c == '"' {
					if i+1 < n && line[i+1] == '"' {
						sb.WriteByte('"')
						i += 2
						continue
					}
					i++
					break
				}
				sb.WriteByte(c)
				i++
			}
			// Anything between the closing quote and the separator is
			// malformed; keep it rather than dropping the row.
			for i < n && line[i] != ',' {
				sb.WriteByte(line[i])
				i++
			}
		} else {
			for i < n && line[i] != ',' {
				sb.WriteByte(line[i])
				i++
			}
		}
		fields = append(fields, sb.String())

		if i >= n {
			break
		}
		i++ // separator
		if i >= n {
			// Trailing comma encodes one final empty field.
			fields = append(fields, "")
			break
		}
	}
	return fields
}
