package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractImageURLs(t *testing.T) {
	html := `
	<div>
		<img src="/attachments/screenshot.png">
		<img src="https://cdn.example.com/banner.jpg">
		<img src="/attachments/screenshot.png">
		<img src="data:image/gif;base64,R0lGOD">
		<img alt="no source">
	</div>`

	urls := ExtractImageURLs(html, "https://forum.example.com/threads/t.1/")
	assert.Equal(t, []string{
		"https://forum.example.com/attachments/screenshot.png",
		"https://cdn.example.com/banner.jpg",
	}, urls)
}

func TestExtractImageURLs_NoImages(t *testing.T) {
	assert.Empty(t, ExtractImageURLs("<p>text only</p>", "https://forum.example.com/"))
}

func TestExtractImageURLs_InvalidBase(t *testing.T) {
	assert.Nil(t, ExtractImageURLs(`<img src="/a.png">`, "://bad"))
}
