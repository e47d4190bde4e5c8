package criptofiscal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// contains http utils to deal with remote services

// jwget performs an HTTP GET request and unmarshals the JSON response into the provided data structure.
func jwget(client *http.Client, addr string, data interface{}) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		resp.Body.Close()
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

// jwgetRetry is jwget with bounded exponential backoff, for oracle calls
// that hit rate limits or transient network errors.
func jwgetRetry(client *http.Client, addr string, data interface{}, attempts int) error {
	delay := 500 * time.Millisecond
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			log.Printf("retrying %s in %s: %v", addr, delay, err)
			time.Sleep(delay)
			delay *= 2
		}
		if err = jwget(client, addr, data); err == nil {
			return nil
		}
	}
	return fmt.Errorf("giving up on %s after %d attempts: %w", addr, attempts, err)
}
