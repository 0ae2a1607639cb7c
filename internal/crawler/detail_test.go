package crawler

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type detailFetcher struct {
	html string
	err  error
}

func (f *detailFetcher) Fetch(context.Context, string) (string, error) {
	return f.html, f.err
}

func newTestEnricher(f Fetcher) *Enricher {
	return NewEnricher(f, zap.NewNop())
}

func TestDetailTextEntryContent(t *testing.T) {
	t.Parallel()

	const page = `<html><body>
<div class="sidebar"><p>navigacija</p></div>
<div class="entry-content"><p>Opis  rada
u   dva retka.</p></div>
<div class="post-content"><p>ne ovaj</p></div>
</body></html>`

	text := newTestEnricher(&detailFetcher{html: page}).DetailText(context.Background(), "u")
	require.NotNil(t, text)
	assert.Equal(t, "Opis rada u dva retka.", *text)
}

func TestDetailTextFallbackOrder(t *testing.T) {
	t.Parallel()

	const page = `<html><body>
<div class="single-content">single</div>
<div class="post-content">post</div>
</body></html>`

	text := newTestEnricher(&detailFetcher{html: page}).DetailText(context.Background(), "u")
	require.NotNil(t, text)
	assert.Equal(t, "post", *text, "post-content outranks single-content in the chain")
}

func TestDetailTextWholeDocumentFallback(t *testing.T) {
	t.Parallel()

	const page = `<html><body><main><p>Samo obican tekst.</p></main></body></html>`

	text := newTestEnricher(&detailFetcher{html: page}).DetailText(context.Background(), "u")
	require.NotNil(t, text)
	assert.Equal(t, "Samo obican tekst.", *text)
}

func TestDetailTextTruncatesByRunes(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("č", MaxDetailChars+500)
	page := `<div class="entry-content">` + long + `</div>`

	text := newTestEnricher(&detailFetcher{html: page}).DetailText(context.Background(), "u")
	require.NotNil(t, text)
	assert.Equal(t, MaxDetailChars, utf8.RuneCountInString(*text))
	assert.True(t, utf8.ValidString(*text), "truncation must not split a multi-byte rune")
}

func TestDetailTextFetchFailure(t *testing.T) {
	t.Parallel()

	fetcher := &detailFetcher{err: &TransportError{URL: "u", Err: errors.New("refused")}}
	assert.Nil(t, newTestEnricher(fetcher).DetailText(context.Background(), "u"))
}

func TestDetailTextEmptyDocument(t *testing.T) {
	t.Parallel()

	assert.Nil(t, newTestEnricher(&detailFetcher{html: ""}).DetailText(context.Background(), "u"))
}
