package priceimport

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"

	"github.com/etnz/stockassist"
)

// remote quote sources, with a daily disk cache so repeated imports within a
// day do not hammer the endpoints.

// diskCache implements a simple disk cache for HTTP responses
type diskCache struct {
	base http.RoundTripper
}

func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	// the key includes the day, so the local tmp expires every day.
	key := fmt.Sprintf("%s %s %s", stockassist.Today().String(), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v/%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}

	err = c.put(key, resp)
	if err != nil {
		log.Printf("cache write err (ignored): %v\n", err)
	}
	return resp, nil
}

func (c *diskCache) get(key string, req *http.Request) (resp *http.Response, err error) {
	file := filepath.Join(os.TempDir(), key)
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

func (c *diskCache) put(key string, resp *http.Response) (err error) {
	file := filepath.Join(os.TempDir(), key)

	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}

	_, err = f.Write(content)
	f.Close()
	return err
}

// DailyClient returns an HTTP client whose responses are cached on disk until
// the end of the day.
func DailyClient() *http.Client {
	client := new(http.Client)
	client.Transport = &diskCache{http.DefaultTransport}
	return client
}

// jwget performs an HTTP GET request and unmarshals the JSON response into the provided data structure.
func jwget(client *http.Client, addr string, data interface{}) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	_, err = io.Copy(&buf, resp.Body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return json.Unmarshal(buf.Bytes(), data)
}

// FetchLatest returns the latest traded price of an ISIN from TradeGate, in
// euros.
func FetchLatest(client *http.Client, isin string) (decimal.Decimal, error) {
	base := "https://www.tradegate.de/refresh.php?isin="
	addr := base + isin

	var jobj map[string]any

	err := jwget(client, addr, &jobj)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("error retrieving %q: %w", isin, err)
	}
	// last is the last transaction, moves slower than the bid, but the bid can be 0.
	jval := jobj["last"]
	if s, ok := jval.(string); ok {
		if s == "./." {
			// trade gate shows an empty last this way, use the bid instead
			log.Println("'last' is empty, falling back to 'bid'")
			jval = jobj["bid"]
		}
	}
	val, ok := jval.(float64)
	if !ok {
		// sometimes this API returns the value as a string
		sval, ok := jval.(string)
		if !ok {
			return decimal.Decimal{}, fmt.Errorf("cannot read value for %q: neither a float nor a string", isin)
		}
		sval = strings.ReplaceAll(sval, ",", ".")
		sval = strings.ReplaceAll(sval, " ", "")
		val, err = strconv.ParseFloat(sval, 64)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("cannot read value for %q: invalid string %q: %w", isin, sval, err)
		}
	}
	if val == 0 {
		// sometimes the bid is empty and returns 0
		return decimal.Decimal{}, fmt.Errorf("empty bid for %s, no value to return: bidsize=%v", isin, jobj["bidsize"])
	}
	return decimal.NewFromFloat(val), nil
}

// FetchJSONPath fetches a JSON document and extracts a single numeric value
// with a jsonpath expression. It is meant for ad-hoc quote endpoints, like a
// currency rate buried in a chart payload.
func FetchJSONPath(client *http.Client, addr, path string) (decimal.Decimal, error) {
	var jobj any
	err := jwget(client, addr, &jobj)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("error in wget %q: %w", addr, err)
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("error evaluating %q on %q: %w", path, addr, err)
	}
	// jsonpath is never clear about whether it returns a list of one answer
	// or a single answer, keep the first one if any.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("value at %q is not a number: %v", path, jval)
	}
	return decimal.NewFromFloat(val), nil
}
