package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeWhitespace(t *testing.T) {
	in := "CORNER  MARKET\r\nMilk\t4.99   \n\n\n\nTOTAL 4.99  "
	want := "CORNER MARKET\nMilk 4.99\n\nTOTAL 4.99"
	assert.Equal(t, want, Normalize(in))
}

func TestNormalizeEmpty(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
}

func TestNormalizeKeepsLineBreaks(t *testing.T) {
	in := "line one\nline two"
	assert.Equal(t, in, Normalize(in))
}
