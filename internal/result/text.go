package result

import (
	"strconv"
	"strings"

	"github.com/tuannm99/novaresult/internal/render"
)

const missingCollectionBox = "Internal error - result was successful but there was no collection"

// String renders the result as tab-separated text: header, row count, one
// line per row. An unsuccessful result renders as its error message.
func (r *MaterializedResult) String() string {
	if r.HasError() {
		return r.ErrorMessage() + "\n"
	}
	coll, err := r.Collection()
	if err != nil {
		return err.Error() + "\n"
	}

	var sb strings.Builder
	sb.WriteString(render.Header(r.names, r.types))
	sb.WriteString("[ Rows: " + strconv.Itoa(coll.Count()) + "]\n")
	ncols := coll.ColumnCount()
	for _, row := range coll.Rows().All() {
		for col := 0; col < ncols; col++ {
			if col > 0 {
				sb.WriteByte('\t')
			}
			v := row.Value(col)
			if v.IsNull() {
				sb.WriteString("NULL")
				continue
			}
			sb.WriteString(render.EscapeCell(v.String()))
		}
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
	return sb.String()
}

// ToBox renders the result as a box-drawn table.
func (r *MaterializedResult) ToBox(cfg render.Config) string {
	if r.HasError() {
		return r.ErrorMessage() + "\n"
	}
	if r.coll == nil {
		return missingCollectionBox
	}
	return render.NewBoxRenderer(cfg).Render(r.names, r.coll)
}
