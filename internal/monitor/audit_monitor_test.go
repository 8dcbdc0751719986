package monitor

import (
	"testing"
	"time"

	"github.com/ajharbinger/seo-lead-qualifier/internal/scoring"
)

func hasString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func TestAuditMonitor_RecordSuccessAndFailure(t *testing.T) {
	monitor := NewAuditMonitor()

	if !monitor.IsHealthy() {
		t.Error("Expected new monitor to be healthy")
	}

	monitor.RecordSuccess()
	monitor.RecordSuccess()
	monitor.RecordSuccess()

	status := monitor.GetHealthStatus()
	if status.TotalAudits != 3 {
		t.Errorf("Expected 3 total audits, got %d", status.TotalAudits)
	}
	if status.SuccessRate != 1.0 {
		t.Errorf("Expected 100%% success rate, got %.2f", status.SuccessRate)
	}

	monitor.RecordFailure("Petal Works", "connection refused", "https://petal.example")

	status = monitor.GetHealthStatus()
	if status.FailedAudits != 1 {
		t.Errorf("Expected 1 failed audit, got %d", status.FailedAudits)
	}
	if status.SuccessRate != 0.75 {
		t.Errorf("Expected 75%% success rate, got %.2f", status.SuccessRate)
	}
	if len(status.RecentFailures) != 1 || status.RecentFailures[0].Category != CategoryNetwork {
		t.Errorf("Expected one network failure, got %+v", status.RecentFailures)
	}
	if status.FailuresByCategory[CategoryNetwork] != 1 {
		t.Errorf("Expected network failure count 1, got %v", status.FailuresByCategory)
	}
}

func TestAuditMonitor_Observe(t *testing.T) {
	monitor := NewAuditMonitor()
	fixed := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	monitor.now = func() time.Time { return fixed }

	// Leads without a website were never audited
	monitor.Observe("Crumb & Co", "", scoring.NewAuditError("Invalid URL"))
	monitor.Observe("Crumb & Co", "https://crumb.example", nil)

	monitor.Observe("Luigi's Trattoria", "https://luigis.example", &scoring.SeoAuditRecord{})
	monitor.Observe("Petal Works", "https://petal.example", scoring.NewAuditError("request timed out"))

	status := monitor.GetHealthStatus()
	if status.TotalAudits != 2 {
		t.Fatalf("Expected 2 observed audits, got %d", status.TotalAudits)
	}

	failure := status.RecentFailures[0]
	if failure.Lead != "Petal Works" || failure.URL != "https://petal.example" || failure.Category != CategoryTimeout {
		t.Errorf("Unexpected failure record: %+v", failure)
	}
	if status.LastFailureTime == nil || !status.LastFailureTime.Equal(fixed) {
		t.Errorf("Expected last failure time %v, got %v", fixed, status.LastFailureTime)
	}

	var nilMonitor *AuditMonitor
	nilMonitor.Observe("x", "https://x.example", &scoring.SeoAuditRecord{})
}

func TestAuditMonitor_ConsecutiveFailures(t *testing.T) {
	monitor := NewAuditMonitor()

	for i := 0; i < 6; i++ {
		monitor.RecordFailure("lead", "error", "")
	}

	status := monitor.GetHealthStatus()
	if status.IsHealthy {
		t.Error("Expected monitor to be unhealthy after consecutive failures")
	}
	if !hasString(status.HealthIssues, "Multiple consecutive audit failures detected") {
		t.Error("Expected consecutive failure health issue")
	}

	monitor.RecordSuccess()
	if got := monitor.GetHealthStatus().ConsecutiveFailures; got != 0 {
		t.Errorf("Expected consecutive failures to reset, got %d", got)
	}
}

func TestAuditMonitor_HighFailureRate(t *testing.T) {
	monitor := NewAuditMonitor()

	for i := 0; i < 8; i++ {
		monitor.RecordSuccess()
		if i%2 == 0 {
			monitor.RecordFailure("lead", "error", "")
		}
	}

	status := monitor.GetHealthStatus()
	if status.IsHealthy {
		t.Error("Expected monitor to be unhealthy due to high failure rate")
	}
	if !hasString(status.HealthIssues, "High audit failure rate detected (>20%)") {
		t.Errorf("Expected high failure rate issue, got %v", status.HealthIssues)
	}
}

func TestAuditMonitor_FailurePatternAnalysis(t *testing.T) {
	monitor := NewAuditMonitor()

	for i := 0; i < 4; i++ {
		monitor.RecordSuccess()
		monitor.RecordFailure("lead", "HTTP 429: quota exhausted", "")
	}

	status := monitor.GetHealthStatus()
	if !hasString(status.HealthIssues, "Audit provider rate limiting detected") {
		t.Errorf("Expected rate limit pattern, got %v", status.HealthIssues)
	}
	if !hasString(status.RecommendedActions, "Reduce audit frequency and back off between batches") {
		t.Errorf("Expected rate limit action, got %v", status.RecommendedActions)
	}
}

func TestAuditMonitor_RecentFailuresLimit(t *testing.T) {
	monitor := NewAuditMonitor()

	for i := 0; i < 60; i++ {
		monitor.RecordFailure("lead", "error", "")
	}

	status := monitor.GetHealthStatus()
	if len(status.RecentFailures) != monitor.maxRecentFailures {
		t.Errorf("Expected recent failures to be limited to %d, got %d",
			monitor.maxRecentFailures, len(status.RecentFailures))
	}
}

func TestAuditMonitor_Reset(t *testing.T) {
	monitor := NewAuditMonitor()

	monitor.RecordSuccess()
	monitor.RecordFailure("lead", "error", "")
	monitor.Reset()

	status := monitor.GetHealthStatus()
	if status.TotalAudits != 0 || status.FailedAudits != 0 || len(status.RecentFailures) != 0 {
		t.Errorf("Expected empty status after reset, got %+v", status)
	}
	if monitor.GetFailureRate() != 0.0 {
		t.Error("Expected 0 failure rate after reset")
	}
}

func TestAuditMonitor_FailureRate(t *testing.T) {
	monitor := NewAuditMonitor()

	monitor.RecordSuccess()
	monitor.RecordSuccess()
	monitor.RecordFailure("lead", "error", "")
	monitor.RecordFailure("lead", "error", "")

	if rate := monitor.GetFailureRate(); rate != 0.5 {
		t.Errorf("Expected failure rate 0.50, got %.2f", rate)
	}
}

func TestCategorizeError(t *testing.T) {
	testCases := []struct {
		error    string
		expected string
	}{
		{"request timed out", CategoryTimeout},
		{"context deadline exceeded", CategoryTimeout},
		{"rate limit exceeded", CategoryRateLimit},
		{"HTTP 429", CategoryRateLimit},
		{"x509: certificate has expired", CategoryTLS},
		{"dial tcp: lookup shop.example: no such host", CategoryNetwork},
		{"connection refused", CategoryNetwork},
		{"unexpected status code 503", CategoryHTTP},
		{"Invalid URL", CategoryOther},
	}

	for _, tc := range testCases {
		if result := CategorizeError(tc.error); result != tc.expected {
			t.Errorf("CategorizeError(%q) = %q, expected %q", tc.error, result, tc.expected)
		}
	}
}
