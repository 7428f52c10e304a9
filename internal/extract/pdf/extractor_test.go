package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdocs/askdocs/internal/core/domain"
)

// buildPDF assembles a minimal uncompressed PDF with one text content
// stream per page, computing xref offsets as it goes.
func buildPDF(t *testing.T, pageTexts []string) []byte {
	t.Helper()

	var buf bytes.Buffer
	offsets := []int{0} // index is the object number; 0 unused
	addObj := func(body string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(body)
	}

	buf.WriteString("%PDF-1.4\n")

	n := len(pageTexts)
	kids := make([]string, n)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	addObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	addObj(fmt.Sprintf("2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n",
		strings.Join(kids, " "), n))
	addObj("3 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n")

	for i, text := range pageTexts {
		pageNum := 4 + 2*i
		contNum := 5 + 2*i
		addObj(fmt.Sprintf("%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
			"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>\nendobj\n",
			pageNum, contNum))

		stream := ""
		if text != "" {
			stream = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		}
		addObj(fmt.Sprintf("%d 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n",
			contNum, len(stream), stream))
	}

	xrefOffset := buf.Len()
	total := 4 + 2*n
	buf.WriteString(fmt.Sprintf("xref\n0 %d\n", total))
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i < total; i++ {
		buf.WriteString(fmt.Sprintf("%010d 00000 n \n", offsets[i]))
	}
	buf.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		total, xrefOffset))

	return buf.Bytes()
}

func TestExtractPages_PageCountAndOrder(t *testing.T) {
	e := New()

	data := buildPDF(t, []string{"Page one text", "Page two text", "Page three text"})
	pages, err := e.ExtractPages(data)

	require.NoError(t, err)
	require.Len(t, pages, 3)
	for i, p := range pages {
		assert.Equal(t, i+1, p.Number)
	}
}

func TestExtractPages_TextContent(t *testing.T) {
	e := New()

	data := buildPDF(t, []string{"Alpha Beta"})
	pages, err := e.ExtractPages(data)

	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Contains(t, pages[0].Text, "Alpha Beta")
}

func TestExtractPages_EmptyPageKept(t *testing.T) {
	e := New()

	data := buildPDF(t, []string{"Alpha Beta", ""})
	pages, err := e.ExtractPages(data)

	require.NoError(t, err)
	require.Len(t, pages, 2, "empty page must not be dropped")
	assert.Equal(t, 2, pages[1].Number)
	assert.Empty(t, pages[1].Text)
}

func TestExtractPages_NotAPDF(t *testing.T) {
	e := New()

	_, err := e.ExtractPages([]byte("this is not a pdf"))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtractPages_EmptyInput(t *testing.T) {
	e := New()

	_, err := e.ExtractPages(nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "carriage returns become newlines",
			in:   "a\r\nb\rc",
			want: "a\nb\nc",
		},
		{
			name: "horizontal whitespace collapses",
			in:   "a  \t  b",
			want: "a b",
		},
		{
			name: "newline runs collapse to paragraph break",
			in:   "a\n\n\n\n\nb",
			want: "a\n\nb",
		},
		{
			name: "leading and trailing whitespace trimmed",
			in:   "  \n hello \n  ",
			want: "hello",
		},
		{
			name: "already normalised text unchanged",
			in:   "one two\n\nthree four",
			want: "one two\n\nthree four",
		},
		{
			name: "empty stays empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.in))
		})
	}
}

func TestNormalizeText_Idempotent(t *testing.T) {
	in := "First  line\r\nSecond line\n\n\n\nThird   line\t end  "

	once := NormalizeText(in)
	twice := NormalizeText(once)

	assert.Equal(t, once, twice)
}
