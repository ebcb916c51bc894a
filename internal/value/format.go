package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tuannm99/novaresult/internal/record"
)

const nullText = "NULL"

// String renders v the way result printers show it.
func (v Value) String() string {
	if v.IsNull() {
		return nullText
	}
	switch id := v.typ.ID; {
	case id == record.TypeBoolean:
		return strconv.FormatBool(v.b)
	case id.IsUnsigned():
		return strconv.FormatUint(v.u, 10)
	case id.IsInteger():
		return strconv.FormatInt(v.i, 10)
	case id == record.TypeFloat:
		return formatFloat(v.f, 32)
	case id == record.TypeDouble:
		return formatFloat(v.f, 64)
	case id == record.TypeDecimal:
		return v.dec.StringFixed(int32(v.typ.Scale))
	case id == record.TypeVarchar || id == record.TypeUUID:
		return v.s
	case id == record.TypeBlob:
		return formatBlob(v.blob)
	case id == record.TypeDate:
		return epoch.AddDate(0, 0, int(v.i)).Format("2006-01-02")
	case id == record.TypeTime:
		return formatTimeOfDay(v.i)
	case id == record.TypeTimestamp:
		t := time.UnixMicro(v.i).UTC()
		return t.Format("2006-01-02") + " " + formatTimeOfDay(int64(t.Hour())*3600e6+
			int64(t.Minute())*60e6+int64(t.Second())*1e6+int64(t.Nanosecond()/1000))
	case id == record.TypeInterval:
		return formatInterval(v.iv)
	}
	return fmt.Sprintf("<%s>", v.typ)
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// printable ASCII stays as-is, everything else becomes \xNN.
func formatBlob(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if c >= 0x20 && c < 0x7f && c != '\\' && c != '\'' && c != '"' {
			sb.WriteByte(c)
			continue
		}
		fmt.Fprintf(&sb, "\\x%02X", c)
	}
	return sb.String()
}

func formatTimeOfDay(micros int64) string {
	h := micros / 3600e6
	micros -= h * 3600e6
	m := micros / 60e6
	micros -= m * 60e6
	s := micros / 1e6
	frac := micros - s*1e6
	out := fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	if frac != 0 {
		out += strings.TrimRight(fmt.Sprintf(".%06d", frac), "0")
	}
	return out
}

func plural(n int64, unit string) string {
	if n == 1 || n == -1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func formatInterval(iv Interval) string {
	var parts []string
	years, months := int64(iv.Months/12), int64(iv.Months%12)
	if years != 0 {
		parts = append(parts, plural(years, "year"))
	}
	if months != 0 {
		parts = append(parts, plural(months, "month"))
	}
	if iv.Days != 0 {
		parts = append(parts, plural(int64(iv.Days), "day"))
	}
	if iv.Micros != 0 {
		micros := iv.Micros
		sign := ""
		if micros < 0 {
			sign = "-"
			micros = -micros
		}
		parts = append(parts, sign+formatTimeOfDay(micros))
	}
	if len(parts) == 0 {
		return "00:00:00"
	}
	return strings.Join(parts, " ")
}
