package maintenance

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

// Heartbeat appends a liveness line to the heartbeat log. When the HTTP
// server is reachable it also probes /health and records a failure
// suffix if the probe does not return 200.
func (j *Jobs) Heartbeat(ctx context.Context) error {
	line := j.clock.Now().Format("02/01/2006-15:04:05") + " CRM is alive"

	if err := j.probeHealth(ctx); err != nil {
		line += fmt.Sprintf(" - health check failed: %v", err)
	}

	return j.appendLines(heartbeatLogFile, line)
}

func (j *Jobs) probeHealth(ctx context.Context) error {
	addr := j.httpAddr
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
