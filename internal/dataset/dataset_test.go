package dataset

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// xlsxFixtureBase64 is a workbook with a "Notes" sheet (id 1) and a "Sales"
// sheet (id 2): region/sales/units over three rows, units[1] blank.
const xlsxFixtureBase64 = `
UEsDBBQAAAAIABhaU12VdlHuFAEAAD4DAAATAAAAW0NvbnRlbnRfVHlwZXNdLnhtbMVSS0sDMRC++ytCrmWTtgcR2W0PPo4qWH/AmMzuhuZFJq3tvzfdVhGp
FqHgaUi+J8nU842zbI2JTPANn4gxZ+hV0MZ3DX9Z3FdXnFEGr8EGjw3fIvH57KJebCMSK2JPDe9zjtdSkurRAYkQ0RekDclBLsfUyQhqCR3K6Xh8KVXwGX2u
8s6Dz+pbbGFlM7vblOt9kYSWOLvZE3dZDYcYrVGQCy7XXn9LqQ4JoigHDvUm0qgQuDyasEN+DjjoHsvLJKORPUHKD+AKS26sfAtp+RrCUvxucqRlaFujUAe1
ckUiKCYETT1idlYMUzgwfnQ6fyCTHMbkzEU+/f/YY/pPPaiHhPo5p7K1dPZP+eL90UMO6z97B1BLAwQUAAAACAAYWlNdBlnHgrEAAAAoAQAACwAAAF9yZWxz
Ly5yZWxzjc+xDoIwEAbg3adobpeCgzGGwmJMWA0+QG2PQoBe01aFt7ejGgfHy/33/bmyXuaJPdCHgayAIsuBoVWkB2sEXNvz9gAsRGm1nMiigBUD1NWmvOAk
Y7oJ/eACS4gNAvoY3ZHzoHqcZcjIoU2bjvwsYxq94U6qURrkuzzfc/9uQPVhskYL8I0ugLWrw39s6rpB4YnUfUYbf1R8JZIsvcEoYJn4k/x4IxqzhAKvSv7x
YPUCUEsDBBQAAAAIABhaU11wL5WNygAAAEgBAAAPAAAAeGwvd29ya2Jvb2sueG1sjVBNb8IwDL3vV0S+j5QeJlS15YImceEy+AFZ49KIxK7ssLF/vwyGNG47
+ev5vWe360uK5gNFA1MHy0UFBmlgH+jYwWH/+rwCo9mRd5EJO/hChXX/1H6ynN6ZT6bsk3Yw5Tw31uowYXK64BmpTEaW5HIp5Wh1FnReJ8Scoq2r6sUmFwhu
DI38h4PHMQy44eGckPKNRDC6XNzrFGaFvr0q6G805FJxveNcfJtra+vLnWCkCSWRrV+CfQS/ufgArv+A6x+wvUvY+xf6b1BLAwQUAAAACAAYWlNdfBpzM8IA
AAC6AQAAGgAAAHhsL19yZWxzL3dvcmtib29rLnhtbC5yZWxztZDPCsIwDIfvPkXJ3WXbQUTsdhHBq+gDlC77g1tbmqrb21sERcWDF08h+ZEvH1mX49CLC3nu
rJGQJSkIMtpWnWkkHA/b+RIEB2Uq1VtDEiZiKIvZek+9CnGH286xiBDDEtoQ3AqRdUuD4sQ6MjGprR9UiK1v0Cl9Ug1hnqYL9K8MKN6YYldJ8LsqA3GYHP3C
tnXdadpYfR7IhC8n8Gr9iVuiEKHKNxQkPEeM95IlkQr4XSb/swyOPX4K5Q8hfHt5cQNQSwMEFAAAAAgAGFpTXUxsURG1AAAAMgEAABQAAAB4bC9zaGFyZWRT
dHJpbmdzLnhtbGXPQWoDMQwF0H1OYbRvPO2iCcF2FoWeID2AmVHGBluaWprS3L4upRAmy//ER3x3/q7FfGGTzOTheT+AQRp5yjR7+Li8Px3BiEaaYmFCDzcU
OIedE1HTqyQekupyslbGhDXKnhekfrlyq1F7bLOVpWGcJCFqLfZlGF5tjZnAjLySejiAWSl/rvj2n4OTHJwGYkVnNTj7m/8sYSm8xYZzX7BViQVli/2VPiBx
0/RQ5/UebR8dfgBQSwMEFAAAAAgAGFpTXaZS6YmtAAAAAgEAABgAAAB4bC93b3Jrc2hlZXRzL3NoZWV0MS54bWxdjsEKwjAMhu8+RcndZdtBRNoOQXwCfYDS
RTdc29GUTd/eusMYHgL5/3xJftm83SAmitwHr6AqShDkbWh7/1Rwv133RxCcjG/NEDwp+BBDo3dyDvHFHVES+YBnBV1K4wmRbUfOcBFG8nnyCNGZlGV8Io+R
TLssuQHrsjygM70HLRfvYpLRMoZZxBwku/bXnCsQSQFnPelS4qQl2lyZW+F6hesNXP3BuPmCa3z9BVBLAwQUAAAACAAYWlNdtQ4yYucAAAAJAgAAGAAAAHhs
L3dvcmtzaGVldHMvc2hlZXQyLnhtbH2RUU7EIBCG3z0FmXc7La2rMcBG13gCPQBp2W1jgQZIV28vdg1hifGNmQ++fwC2/9QzWZXzkzUcmqoGokxvh8mcOLy/
vd4+APFBmkHO1igOX8rDXtyws3UfflQqkCgwnsMYwvKI6PtRaekruygTydE6LUMs3Qn94pQctkN6RlrXO9RyMiDY1nuRQQrm7Jm4OEjs9j+LpwZI4OBjvQrK
cBUM+1/2nLP2mh1y1iWG0Z9CaAqh2ea7IoRu3aauCnCgRe6Vu03uNnPvCnd7uVb9t6NLju6f+bqte1/Rcr4LaAo3Zo+N6RfFN1BLAQIUAxQAAAAIABhaU12V
dlHuFAEAAD4DAAATAAAAAAAAAAAAAACAAQAAAABbQ29udGVudF9UeXBlc10ueG1sUEsBAhQDFAAAAAgAGFpTXQZZx4KxAAAAKAEAAAsAAAAAAAAAAAAAAIAB
RQEAAF9yZWxzLy5yZWxzUEsBAhQDFAAAAAgAGFpTXXAvlY3KAAAASAEAAA8AAAAAAAAAAAAAAIABHwIAAHhsL3dvcmtib29rLnhtbFBLAQIUAxQAAAAIABha
U118GnMzwgAAALoBAAAaAAAAAAAAAAAAAACAARYDAAB4bC9fcmVscy93b3JrYm9vay54bWwucmVsc1BLAQIUAxQAAAAIABhaU11MbFERtQAAADIBAAAUAAAA
AAAAAAAAAACAARAEAAB4bC9zaGFyZWRTdHJpbmdzLnhtbFBLAQIUAxQAAAAIABhaU12mUumJrQAAAAIBAAAYAAAAAAAAAAAAAACAAfcEAAB4bC93b3Jrc2hl
ZXRzL3NoZWV0MS54bWxQSwECFAMUAAAACAAYWlNdtQ4yYucAAAAJAgAAGAAAAAAAAAAAAAAAgAHaBQAAeGwvd29ya3NoZWV0cy9zaGVldDIueG1sUEsFBgAA
AAAHAAcAzQEAAPcGAAAAAA==
`

func decodeFixture(t *testing.T) []byte {
	t.Helper()
	b, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(xlsxFixtureBase64), ""))
	require.NoError(t, err)
	return b
}

func TestReadJSONRecordsKeepsKeyOrder(t *testing.T) {
	in := `[
		{"city": "Taipei", "temp": 31.5, "rain": null},
		{"city": "Tainan", "temp": 33, "humidity": 80},
		{"temp": "29.1", "city": "Keelung", "rain": 12}
	]`
	ds, err := ReadJSON(strings.NewReader(in), "weather.json", DefaultLoadOptions())
	require.NoError(t, err)

	assert.Equal(t, "weather.json", ds.Name())
	assert.Equal(t, 3, ds.Rows())
	assert.Equal(t, []string{"city", "temp", "rain", "humidity"}, ds.Names())
	assert.Equal(t, map[string]Kind{
		"city":     Categorical,
		"temp":     Numeric,
		"rain":     Numeric,
		"humidity": Numeric,
	}, ds.Kinds())

	rain, ok := ds.Column("rain")
	require.True(t, ok)
	assert.Equal(t, 2, rain.Missing())
	humidity, _ := ds.Column("humidity")
	assert.Equal(t, 2, humidity.Missing())
	assert.Equal(t, 4, ds.MissingCells())
	assert.Equal(t, 3, ds.CountKind(Numeric))
	assert.Equal(t, 1, ds.CountKind(Categorical))
}

func TestReadJSONColumns(t *testing.T) {
	in := `{"x": [1, 2, 3], "label": ["a", "b", "a"], "batch": "b1"}`
	ds, err := ReadJSON(strings.NewReader(in), "cols.json", DefaultLoadOptions())
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Rows())
	assert.Equal(t, []string{"x", "label", "batch"}, ds.Names())

	batch, _ := ds.Column("batch")
	cat, ok := batch.(*CategoricalColumn)
	require.True(t, ok)
	assert.Equal(t, 1, cat.Distinct())
}

func TestReadJSONSingleRecord(t *testing.T) {
	ds, err := ReadJSON(strings.NewReader(`{"a": 1, "b": "x"}`), "one.json", DefaultLoadOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Rows())
	assert.Equal(t, 2, ds.NumColumns())
}

func TestReadJSONEmptyRecords(t *testing.T) {
	ds, err := ReadJSON(strings.NewReader(`[{}, {}]`), "empty.json", DefaultLoadOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Rows())
	assert.Equal(t, 0, ds.NumColumns())
	assert.True(t, ds.Empty())
	assert.ErrorIs(t, CheckShape(ds), ErrDegenerate)
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", "   "},
		{"scalar", `42`},
		{"row not object", `[{"a": 1}, 2]`},
		{"ragged columns", `{"a": [1, 2], "b": [1]}`},
		{"truncated", `[{"a": 1}`},
		{"trailing data", `[] []`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.in), "bad.json", DefaultLoadOptions())
			var pe *InputParseError
			require.True(t, errors.As(err, &pe), "got %v", err)
			assert.Equal(t, "bad.json", pe.Source)
		})
	}
}

func TestInference(t *testing.T) {
	tests := []struct {
		name string
		raw  []any
		want Kind
	}{
		{"numbers", []any{1.0, 2, int64(3)}, Numeric},
		{"numeric strings", []any{"1", " 2.5 ", "3e2"}, Numeric},
		{"numbers with gaps", []any{nil, 2.0, "", math.NaN()}, Numeric},
		{"mixed", []any{1.0, "a"}, Categorical},
		{"booleans", []any{true, false}, Categorical},
		{"all missing", []any{nil, nil}, Categorical},
		{"nested", []any{map[string]any{"k": 1.0}}, Categorical},
		{"na tokens any case", []any{"N/A", "na", "None", "#n/a", 4.0}, Numeric},
		{"infinity text", []any{"inf", 1.0}, Categorical},
		{"Infinity text", []any{"2", "-Infinity"}, Categorical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := inferColumn("c", tt.raw)
			assert.Equal(t, tt.want, col.Kind())
			assert.Equal(t, len(tt.raw), col.Len())
		})
	}
}

func TestNATokensAcrossFormats(t *testing.T) {
	ds, err := ReadJSON(strings.NewReader(`[{"v":1},{"v":"N/A"},{"v":3},{"v":"null"}]`), "na.json", DefaultLoadOptions())
	require.NoError(t, err)
	v := mustNumeric(t, ds, "v")
	assert.Equal(t, 2, v.Missing())

	ds, err = ReadCSV(strings.NewReader("v\n1\nN/A\n3\nn/a\n"), "na.csv", DefaultLoadOptions())
	require.NoError(t, err)
	v = mustNumeric(t, ds, "v")
	assert.Equal(t, 2, v.Missing())

	b := buildXLSX(t, xlsxSheet{name: "Data", id: "1", rows: [][]string{{"v"}, {"1"}, {"N/A"}, {"3"}, {"#n/a"}}})
	ds, err = ReadXLSX(bytes.NewReader(b), int64(len(b)), "na.xlsx", DefaultLoadOptions())
	require.NoError(t, err)
	v = mustNumeric(t, ds, "v")
	assert.Equal(t, 2, v.Missing())
	assert.Equal(t, 4, ds.Rows())
}

func TestInfinityTextStaysCategorical(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader("v\n1\ninf\n3\n"), "inf.csv", DefaultLoadOptions())
	require.NoError(t, err)
	v, _ := ds.Column("v")
	assert.Equal(t, Categorical, v.Kind())
	assert.Equal(t, 0, v.Missing())
}

func TestMaxRows(t *testing.T) {
	in := `[{"a": 1}, {"a": 2}, {"a": 3}]`
	ds, err := ReadJSON(strings.NewReader(in), "m.json", LoadOptions{MaxRows: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Rows())
}

func TestNewValidates(t *testing.T) {
	_, err := New("x", 2, NewNumericColumn("a", []float64{1, 2}), NewNumericColumn("a", []float64{3, 4}))
	var pe *InputParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Error(), "duplicate column")

	_, err = New("x", 2, NewCategoricalColumn("a", []string{"p"}, nil))
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Error(), "has 1 values, want 2")
}

func TestReadCSV(t *testing.T) {
	in := "plot,yield,grade\nA1,12.5,high\nB3,,NA\nC2,9,low\n"
	ds, err := ReadCSV(strings.NewReader(in), "harvest.csv", DefaultLoadOptions())
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Rows())
	assert.Equal(t, []string{"plot", "yield", "grade"}, ds.Names())

	yield, _ := ds.Column("yield")
	assert.Equal(t, Numeric, yield.Kind())
	assert.Equal(t, 1, yield.Missing())
	grade, _ := ds.Column("grade")
	assert.Equal(t, Categorical, grade.Kind())
	assert.Equal(t, 1, grade.Missing())
}

func TestReadCSVDelimiterAndEdgeCases(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader("a\tb\n1\tx\n"), "t.tsv", DefaultLoadOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ds.Names())

	ds, err = ReadCSV(strings.NewReader("a;b\n1;2\n"), "semi.csv", LoadOptions{Delimiter: ';'})
	require.NoError(t, err)
	assert.Equal(t, 2, ds.CountKind(Numeric))

	ds, err = ReadCSV(strings.NewReader("a,b\n"), "header.csv", DefaultLoadOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Rows())
	assert.Equal(t, 2, ds.NumColumns())

	ds, err = ReadCSV(strings.NewReader(""), "blank.csv", DefaultLoadOptions())
	require.NoError(t, err)
	assert.True(t, ds.Empty())
}

func TestReadCSVRejectsDuplicateHeaders(t *testing.T) {
	for _, in := range []string{"a,b,a\n1,2,3\n", "a,b,a\n"} {
		_, err := ReadCSV(strings.NewReader(in), "dup.csv", DefaultLoadOptions())
		var pe *InputParseError
		require.ErrorAs(t, err, &pe, in)
		assert.Contains(t, pe.Error(), `duplicate column name "a"`)
	}
}

func TestReadXLSX(t *testing.T) {
	b := decodeFixture(t)

	ds, err := ReadXLSX(bytes.NewReader(b), int64(len(b)), "sales.xlsx", LoadOptions{SheetName: "sales"})
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Rows())
	assert.Equal(t, []string{"region", "sales", "units"}, ds.Names())
	assert.Equal(t, 2, ds.CountKind(Numeric))

	units, _ := ds.Column("units")
	assert.Equal(t, 1, units.Missing())
	sales := mustNumeric(t, ds, "sales")
	assert.Equal(t, []float64{10.5, 20, 7.25}, sales.Values())

	ds, err = ReadXLSX(bytes.NewReader(b), int64(len(b)), "sales.xlsx", LoadOptions{SheetIndex: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"note"}, ds.Names())
	assert.Equal(t, 1, ds.Rows())

	_, err = ReadXLSX(bytes.NewReader(b), int64(len(b)), "sales.xlsx", LoadOptions{SheetName: "missing"})
	var pe *InputParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Error(), "Notes, Sales")
}

type xlsxSheet struct {
	name, id string
	// rows of cell text; "" becomes a styled empty cell.
	rows [][]string
}

// buildXLSX writes a minimal workbook with inline-string cells. Sheets are
// stored as sheet1.xml, sheet2.xml, ... in the given order.
func buildXLSX(t *testing.T, sheets ...xlsxSheet) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	put := func(name, body string) {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	var wb, rels strings.Builder
	wb.WriteString(`<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><sheets>`)
	rels.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for i, sh := range sheets {
		fmt.Fprintf(&wb, `<sheet name="%s" sheetId="%s" r:id="rId%d"/>`, sh.name, sh.id, i+1)
		fmt.Fprintf(&rels, `<Relationship Id="rId%d" Target="worksheets/sheet%d.xml"/>`, i+1, i+1)

		var ws strings.Builder
		ws.WriteString(`<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>`)
		for r, row := range sh.rows {
			fmt.Fprintf(&ws, `<row r="%d">`, r+1)
			for c, v := range row {
				ref := fmt.Sprintf("%c%d", 'A'+c, r+1)
				if v == "" {
					fmt.Fprintf(&ws, `<c r="%s" s="3"/>`, ref)
					continue
				}
				fmt.Fprintf(&ws, `<c r="%s" t="inlineStr"><is><t>%s</t></is></c>`, ref, v)
			}
			ws.WriteString(`</row>`)
		}
		ws.WriteString(`</sheetData></worksheet>`)
		put(fmt.Sprintf("xl/worksheets/sheet%d.xml", i+1), ws.String())
	}
	wb.WriteString(`</sheets></workbook>`)
	rels.WriteString(`</Relationships>`)
	put("xl/workbook.xml", wb.String())
	put("xl/_rels/workbook.xml.rels", rels.String())
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestReadXLSXCellsPastHeader(t *testing.T) {
	t.Run("styled empty cells are ignored", func(t *testing.T) {
		b := buildXLSX(t, xlsxSheet{name: "S", id: "1", rows: [][]string{
			{"region", "sales"},
			{"north", "10", ""},
			{"south", "20", "", ""},
		}})
		ds, err := ReadXLSX(bytes.NewReader(b), int64(len(b)), "s.xlsx", DefaultLoadOptions())
		require.NoError(t, err)
		assert.Equal(t, []string{"region", "sales"}, ds.Names())
		assert.Equal(t, 2, ds.Rows())
	})

	t.Run("values add unnamed columns", func(t *testing.T) {
		b := buildXLSX(t, xlsxSheet{name: "S", id: "1", rows: [][]string{
			{"region", "sales"},
			{"north", "10", ""},
			{"south", "20", "", "x"},
			{"east", "30"},
		}})
		ds, err := ReadXLSX(bytes.NewReader(b), int64(len(b)), "s.xlsx", DefaultLoadOptions())
		require.NoError(t, err)
		assert.Equal(t, []string{"region", "sales", "Unnamed: 2", "Unnamed: 3"}, ds.Names())
		assert.Equal(t, 3, ds.Rows())
		blank, _ := ds.Column("Unnamed: 2")
		assert.Equal(t, 3, blank.Missing())
		extra, _ := ds.Column("Unnamed: 3")
		assert.Equal(t, 2, extra.Missing())
		assert.Equal(t, 3, extra.Len())
	})
}

func TestReadXLSXSheetIndexIsPosition(t *testing.T) {
	b := buildXLSX(t,
		xlsxSheet{name: "First", id: "7", rows: [][]string{{"a"}, {"1"}}},
		xlsxSheet{name: "Second", id: "3", rows: [][]string{{"b"}, {"2"}}},
	)
	ds, err := ReadXLSX(bytes.NewReader(b), int64(len(b)), "ids.xlsx", LoadOptions{SheetIndex: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ds.Names())

	ds, err = ReadXLSX(bytes.NewReader(b), int64(len(b)), "ids.xlsx", LoadOptions{SheetIndex: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ds.Names())

	_, err = ReadXLSX(bytes.NewReader(b), int64(len(b)), "ids.xlsx", LoadOptions{SheetIndex: 3})
	var pe *InputParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Error(), "sheet index 3 out of range")
}

func TestLoadDispatch(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "rows.JSON")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[{"v": 1}, {"v": 2}]`), 0o644))
	ds, err := Load(jsonPath, DefaultLoadOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Rows())

	xlsxPath := filepath.Join(dir, "book.xlsx")
	require.NoError(t, os.WriteFile(xlsxPath, decodeFixture(t), 0o644))
	ds, err = Load(xlsxPath, LoadOptions{SheetIndex: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, ds.NumColumns())

	_, err = Load(filepath.Join(dir, "notes.txt"), DefaultLoadOptions())
	var pe *InputParseError
	require.ErrorAs(t, err, &pe)

	_, err = Load(filepath.Join(dir, "absent.csv"), DefaultLoadOptions())
	require.ErrorAs(t, err, &pe)
}

func mustNumeric(t *testing.T, ds *Dataset, name string) *NumericColumn {
	t.Helper()
	c, ok := ds.Column(name)
	require.True(t, ok, "column %s", name)
	n, ok := c.(*NumericColumn)
	require.True(t, ok, "column %s is %s", name, c.Kind())
	return n
}
