package logconv

import (
	"fmt"
	"io"
	"slices"
	"sort"
	"time"

	api "github.com/carbonwatch/carbonwatch/lib-carbonwatch"
	"github.com/goccy/go-json"
	"github.com/xuri/excelize/v2"
)

// XLSX_ROW_LIMIT is the maximum number of records in a sheet.
const XLSX_ROW_LIMIT = 100000

const sheetName = "log"

var statusColors = map[api.Status]string{
	api.StatusHealthy: "89C923",
	api.StatusFailure: "FF2D00",
	api.StatusUnknown: "000000",
	api.StatusAborted: "C0C0C0",
}

func excelPos(x, y int) string {
	pos, err := excelize.CoordinatesToCellName(x+1, y+1)
	if err != nil {
		panic(err)
	}
	return pos
}

// ToXlsx writes records as an Excel workbook.
//
// Each row is underlined in the color of its status, and times are shown in the location of createdAt.
// Records after XLSX_ROW_LIMIT are dropped.
func ToXlsx(w io.Writer, s Scanner, createdAt time.Time) error {
	xlsx := excelize.NewFile()
	defer xlsx.Close()

	if err := xlsx.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	if err := xlsx.SetAppProps(&excelize.AppProperties{Application: "carbonwatch"}); err != nil {
		return err
	}
	err := xlsx.SetDocProps(&excelize.DocProperties{
		Created:        createdAt.Format(time.RFC3339),
		Modified:       createdAt.Format(time.RFC3339),
		Creator:        "carbonwatch",
		LastModifiedBy: "carbonwatch",
	})
	if err != nil {
		return err
	}

	zone, _ := createdAt.Zone()
	for i, h := range []string{fmt.Sprintf("time (%s)", zone), "status", "latency", "target", "message"} {
		if err := xlsx.SetCellStr(sheetName, excelPos(i, 0), h); err != nil {
			return err
		}
	}

	datefmt := "yyyy-mm-dd hh:mm:ss"
	latencyfmt := `#,##0.000 "ms"`

	setValue := func(x, y int, value any, color string, border int, format *string) error {
		pos := excelPos(x, y)
		if err := xlsx.SetCellValue(sheetName, pos, value); err != nil {
			return err
		}
		sid, err := xlsx.NewStyle(&excelize.Style{
			CustomNumFmt: format,
			Border:       []excelize.Border{{Type: "bottom", Style: border, Color: color}},
		})
		if err != nil {
			return err
		}
		return xlsx.SetCellStyle(sheetName, pos, pos, sid)
	}

	var extras []map[string]interface{}
	var extraKeys []string

	row := 0
	for s.Scan() {
		row++
		if row > XLSX_ROW_LIMIT {
			break
		}

		r := s.Record()
		color := statusColors[r.Status]

		style, err := xlsx.NewStyle(&excelize.Style{Border: []excelize.Border{{Type: "bottom", Style: 1, Color: color}}})
		if err != nil {
			return err
		}
		if err := xlsx.SetRowStyle(sheetName, row+1, row+1, style); err != nil {
			return err
		}

		cells := []struct {
			Value  any
			Border int
			Format *string
		}{
			{r.Time.In(createdAt.Location()), 1, &datefmt},
			{r.Status.String(), 5, nil},
			{latency(r), 1, &latencyfmt},
			{r.Target, 1, nil},
			{r.Message, 1, nil},
		}
		for x, c := range cells {
			if err := setValue(x, row, c.Value, color, c.Border, c.Format); err != nil {
				return err
			}
		}

		extras = append(extras, r.Extra)
		for k := range r.Extra {
			if !slices.Contains(extraKeys, k) {
				extraKeys = append(extraKeys, k)
			}
		}
	}

	sort.Strings(extraKeys)

	for col, k := range extraKeys {
		if err := xlsx.SetCellStr(sheetName, excelPos(5+col, 0), k); err != nil {
			return err
		}
	}

	for y, extra := range extras {
		for col, k := range extraKeys {
			raw, ok := extra[k]
			if !ok {
				continue
			}
			pos := excelPos(5+col, 1+y)
			switch v := raw.(type) {
			case string:
				err = xlsx.SetCellStr(sheetName, pos, v)
			case float64:
				err = xlsx.SetCellFloat(sheetName, pos, v, 3, 64)
			case bool:
				err = xlsx.SetCellBool(sheetName, pos, v)
			default:
				var b []byte
				if b, err = json.Marshal(v); err == nil {
					err = xlsx.SetCellStr(sheetName, pos, string(b))
				}
			}
			if err != nil {
				return err
			}
		}
	}

	err = xlsx.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	if err != nil {
		return err
	}

	for _, c := range []struct {
		Col   string
		Width float64
	}{{"A", 20}, {"C", 15}, {"D", 20}, {"E", 40}} {
		if err := xlsx.SetColWidth(sheetName, c.Col, c.Col, c.Width); err != nil {
			return err
		}
	}

	if err := xlsx.AutoFilter(sheetName, "A1:"+excelPos(4+len(extraKeys), 0), nil); err != nil {
		return err
	}

	return xlsx.Write(w)
}
