package game

import "strings"

const bandSeparator = "---------+---------+---------"

// String renders the board as a 9x9 text grid, three sub-boards per band.
func (b Board) String() string {
	var sb strings.Builder

	for band := uint8(0); band < 3; band++ {
		if band > 0 {
			sb.WriteString(bandSeparator)
			sb.WriteByte('\n')
		}
		for row := uint8(0); row < 3; row++ {
			for sub := band * 3; sub < band*3+3; sub++ {
				if sub > band*3 {
					sb.WriteByte('|')
				}
				for cell := row * 3; cell < row*3+3; cell++ {
					i := sub*9 + cell
					switch {
					case b.X.Has(i):
						sb.WriteString(" X ")
					case b.O.Has(i):
						sb.WriteString(" O ")
					default:
						sb.WriteString("   ")
					}
				}
			}
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}
