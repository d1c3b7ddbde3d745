//go:build integration
// +build integration

package integration

import (
	"context"
	"log"
	"net"
	"net/url"
	"os"
	"time"
)

// WaitForOpenOrFail blocks until the URL's host:port accepts TCP connections
// or the context expires
func WaitForOpenOrFail(ctx context.Context, urlStr string) {
	u, err := url.Parse(urlStr)
	if err != nil {
		log.Fatalf("FAIL: wrong url '%s': %v", urlStr, err)
	}
	addr := net.JoinHostPort(u.Hostname(), u.Port())
	for {
		conn, err := net.DialTimeout("tcp", addr, time.Second)
		if err == nil {
			_ = conn.Close()
			return
		}
		log.Printf("waiting for %s: %v", addr, err)
		select {
		case <-ctx.Done():
			log.Fatalf("FAIL: can't access %s", urlStr)
		case <-time.After(300 * time.Millisecond):
		}
	}
}

// GetEnvOrFail returns the env value or stops the test run
func GetEnvOrFail(name string) string {
	res := os.Getenv(name)
	if res == "" {
		log.Fatalf("FAIL: no env '%s'", name)
	}
	return res
}
