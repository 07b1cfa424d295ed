package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/site-analyzer/internal/fetch"
	"github.com/jonathan/site-analyzer/internal/types"
)

func TestAnalyzeBatch_PreservesOrderAndIsolatesFailures(t *testing.T) {
	f := fetcherFunc(func(_ context.Context, url string) (*fetch.Result, error) {
		if url == "https://broken.example" {
			return nil, types.NewError(types.KindBadResponse, "Response code 500 (Internal Server Error)", nil).WithURL(url)
		}
		html := fmt.Sprintf(`<html><head><meta property="og:site_name" content="%s"></head></html>`, url)
		return &fetch.Result{URL: url, HTML: html, StatusCode: http.StatusOK}, nil
	})

	urls := []string{
		"https://one.example",
		"http://localhost",
		"https://broken.example",
		"not a url",
		"https://two.example",
	}
	items := NewAnalyzer(f, nil, nil, nil).AnalyzeBatch(context.Background(), urls, types.AnalyzeOptions{}, 3)
	require.Len(t, items, len(urls))

	for i, item := range items {
		assert.Equal(t, urls[i], item.Input)
		assert.True(t, (item.Analysis == nil) != (item.Err == nil), "exactly one of Analysis and Err for %q", item.Input)
	}

	assert.Equal(t, "https://one.example", items[0].Analysis.BrandName)
	assert.Equal(t, types.KindPrivateURL, types.KindOf(items[1].Err))
	assert.Equal(t, types.KindBadResponse, types.KindOf(items[2].Err))
	assert.Equal(t, types.KindValidation, types.KindOf(items[3].Err))
	assert.Equal(t, "https://two.example", items[4].Analysis.BrandName)
}

func TestAnalyzeBatch_RespectsConcurrencyLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	f := fetcherFunc(func(_ context.Context, url string) (*fetch.Result, error) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		return &fetch.Result{URL: url, HTML: "<title>Site</title>", StatusCode: http.StatusOK}, nil
	})

	urls := make([]string, 8)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://site%d.example", i)
	}

	items := NewAnalyzer(f, nil, nil, nil).AnalyzeBatch(context.Background(), urls, types.AnalyzeOptions{}, 2)

	assert.Len(t, items, 8)
	assert.LessOrEqual(t, peak.Load(), int32(2))
	for _, item := range items {
		assert.NoError(t, item.Err)
	}
}

func TestAnalyzeBatch_NonPositiveConcurrency(t *testing.T) {
	items := NewAnalyzer(htmlFetcher(acmePage), nil, nil, nil).
		AnalyzeBatch(context.Background(), []string{"https://a.example", "https://b.example"}, types.AnalyzeOptions{}, 0)

	require.Len(t, items, 2)
	assert.Equal(t, "https://b.example", items[1].Analysis.URL)
}

func TestAnalyzeBatch_Empty(t *testing.T) {
	items := NewAnalyzer(htmlFetcher(acmePage), nil, nil, nil).
		AnalyzeBatch(context.Background(), nil, types.AnalyzeOptions{}, 4)
	assert.Empty(t, items)
}
