package utils

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"
)

// PingService checks if a service is reachable at the given URL or host:port
func PingService(target string, timeout time.Duration) error {
	if !strings.Contains(target, "://") {
		target = "tcp://" + target
	}
	parsedURL, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	host := parsedURL.Hostname()
	port := parsedURL.Port()
	if host == "" {
		return fmt.Errorf("invalid URL %q: missing host", target)
	}

	// Default ports if not specified
	if port == "" {
		switch parsedURL.Scheme {
		case "https":
			port = "443"
		case "redis", "rediss":
			port = "6379"
		default:
			port = "80"
		}
	}

	address := net.JoinHostPort(host, port)

	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	defer conn.Close()

	return nil
}

// PingRedis checks if the realtime broadcast redis is reachable
func PingRedis(addr string) error {
	return PingService("redis://"+addr, 1500*time.Millisecond)
}
