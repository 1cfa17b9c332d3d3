package descriptions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetToolDescription(t *testing.T) {
	for _, name := range GetAllToolNames() {
		desc := GetToolDescription(name)
		assert.NotEmpty(t, desc, name)
		assert.Contains(t, desc, "**", name)
	}
	assert.Equal(t, "Tool description not available", GetToolDescription("pdf_read_file"))
}

func TestGetAllToolNames(t *testing.T) {
	assert.Equal(t, []string{
		"pdf_extract_tables",
		"pdf_layout_text",
		"pdf_search_directory",
		"pdf_server_info",
		"pdf_validate_file",
	}, GetAllToolNames())
}
