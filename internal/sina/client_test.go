package sina_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/DeafMist/premarket-digest/internal/models"
	"github.com/DeafMist/premarket-digest/internal/sina"
)

func TestQuoteClientFetchQuotes(t *testing.T) {
	gbk, err := simplifiedchinese.GBK.NewEncoder().String(`var hq_str_gb_ixic="纳斯达克,15000.50,1.25";`)
	require.NoError(t, err)

	var gotPath, gotReferer string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.String()
		gotReferer = r.Header.Get("Referer")
		w.Header().Set("Content-Type", "application/javascript; charset=GB18030")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(gbk))
	}))
	defer server.Close()

	client := sina.NewQuoteClient(server.URL+"/list=", "https://finance.sina.com.cn/", time.Second)
	text, err := client.FetchQuotes(context.Background(), []string{"gb_ixic", "fx_susdcny"})
	require.NoError(t, err)

	require.Equal(t, "/list=gb_ixic,fx_susdcny", gotPath)
	require.Equal(t, "https://finance.sina.com.cn/", gotReferer)
	require.Equal(t, `var hq_str_gb_ixic="纳斯达克,15000.50,1.25";`, text)
}

func TestQuoteClientUTF8PassThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(`var hq_str_hf_GC="2034.5,,,,,,,2030";`))
	}))
	defer server.Close()

	client := sina.NewQuoteClient(server.URL+"/list=", "", time.Second)
	text, err := client.FetchQuotes(context.Background(), []string{"hf_GC"})
	require.NoError(t, err)
	require.Equal(t, `var hq_str_hf_GC="2034.5,,,,,,,2030";`, text)
}

func TestQuoteClientTransportFailures(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		_, err := sina.NewQuoteClient(server.URL+"/list=", "", time.Second).FetchQuotes(context.Background(), []string{"x"})
		require.ErrorIs(t, err, sina.ErrTransport)
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		_, err := sina.NewQuoteClient(server.URL+"/list=", "", 20*time.Millisecond).FetchQuotes(context.Background(), []string{"x"})
		require.ErrorIs(t, err, sina.ErrTransport)
	})

	t.Run("unreachable", func(t *testing.T) {
		_, err := sina.NewQuoteClient("http://127.0.0.1:1/list=", "", time.Second).FetchQuotes(context.Background(), []string{"x"})
		require.ErrorIs(t, err, sina.ErrTransport)
	})
}

func TestNewsClientFetchNews(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":{"status":{"code":0},"data":[
			{"title":"央行宣布降息","url":"https://finance.sina.com.cn/a","ctime":"1700000000"},
			{"title":"","url":"https://finance.sina.com.cn/b"},
			{"title":"Markets open"}
		]}}`))
	}))
	defer server.Close()

	items, err := sina.NewNewsClient(server.URL, time.Second).FetchNews(context.Background())
	require.NoError(t, err)
	require.Equal(t, []models.NewsItem{
		{Title: "央行宣布降息", URL: "https://finance.sina.com.cn/a"},
		{Title: "", URL: "https://finance.sina.com.cn/b"},
		{Title: "Markets open"},
	}, items)
}

func TestNewsClientMissingData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{"data":null}}`))
	}))
	defer server.Close()

	items, err := sina.NewNewsClient(server.URL, time.Second).FetchNews(context.Background())
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestNewsClientBadPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := sina.NewNewsClient(server.URL, time.Second).FetchNews(context.Background())
	require.ErrorIs(t, err, sina.ErrDecode)
}
