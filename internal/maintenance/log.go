package maintenance

import (
	"os"
	"path/filepath"
	"strings"
)

// Log file names, one per job, under the configured log directory.
const (
	cleanupLogFile   = "customer_cleanup_log.txt"
	heartbeatLogFile = "crm_heartbeat_log.txt"
	restockLogFile   = "lowstockupdates_log.txt"
	reminderLogFile  = "order_reminders_log.txt"
	reportLogFile    = "crmreportlog.txt"
)

// appendLines appends the given lines to a job log file, creating the
// directory and file on first use.
func (j *Jobs) appendLines(file string, lines ...string) error {
	if err := os.MkdirAll(j.logDir, 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(j.logDir, file), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteString(strings.Join(lines, "\n") + "\n"); err != nil {
		return err
	}
	return nil
}
