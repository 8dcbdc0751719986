package monitor

import (
	"strings"
	"sync"
	"time"

	"github.com/ajharbinger/seo-lead-qualifier/internal/scoring"
)

// Failure categories
const (
	CategoryTimeout   = "timeout"
	CategoryRateLimit = "rate_limit"
	CategoryTLS       = "tls"
	CategoryNetwork   = "network"
	CategoryHTTP      = "http_error"
	CategoryOther     = "other"
)

// AuditMonitor tracks how often the website audit provider fails across scored leads
type AuditMonitor struct {
	mu                   sync.RWMutex
	totalAudits          int64
	successfulAudits     int64
	failedAudits         int64
	consecutiveFailures  int64
	lastFailureTime      time.Time
	lastSuccessTime      time.Time
	recentFailures       []FailureRecord
	maxRecentFailures    int
	failureThreshold     float64 // Failure rate above which the provider is unhealthy
	consecutiveThreshold int64
	now                  func() time.Time
}

// FailureRecord represents a single failed audit
type FailureRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Lead      string    `json:"lead"`
	Error     string    `json:"error"`
	Category  string    `json:"category"`
	URL       string    `json:"url,omitempty"`
}

// HealthStatus represents the current health of the audit provider
type HealthStatus struct {
	IsHealthy           bool            `json:"is_healthy"`
	TotalAudits         int64           `json:"total_audits"`
	SuccessfulAudits    int64           `json:"successful_audits"`
	FailedAudits        int64           `json:"failed_audits"`
	SuccessRate         float64         `json:"success_rate"`
	ConsecutiveFailures int64           `json:"consecutive_failures"`
	LastFailureTime     *time.Time      `json:"last_failure_time,omitempty"`
	LastSuccessTime     *time.Time      `json:"last_success_time,omitempty"`
	FailuresByCategory  map[string]int  `json:"failures_by_category"`
	RecentFailures      []FailureRecord `json:"recent_failures"`
	HealthIssues        []string        `json:"health_issues"`
	RecommendedActions  []string        `json:"recommended_actions"`
}

// NewAuditMonitor creates a monitor keeping the last 50 failures
func NewAuditMonitor() *AuditMonitor {
	return &AuditMonitor{
		maxRecentFailures:    50,
		failureThreshold:     0.2,
		consecutiveThreshold: 5,
		recentFailures:       make([]FailureRecord, 0, 50),
		now:                  time.Now,
	}
}

// Observe records the audit outcome of one lead. Leads that were never audited
// (no website, or no audit and no error) are ignored.
func (m *AuditMonitor) Observe(leadName, website string, audit *scoring.SeoAuditRecord) {
	if m == nil || audit == nil || strings.TrimSpace(website) == "" {
		return
	}
	if audit.Failed() {
		url := audit.URL
		if url == "" {
			url = website
		}
		m.RecordFailure(leadName, audit.Message, url)
		return
	}
	m.RecordSuccess()
}

// RecordSuccess records a completed audit
func (m *AuditMonitor) RecordSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalAudits++
	m.successfulAudits++
	m.consecutiveFailures = 0
	m.lastSuccessTime = m.now()
}

// RecordFailure records an audit that returned an error
func (m *AuditMonitor) RecordFailure(leadName, errorMsg, url string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalAudits++
	m.failedAudits++
	m.consecutiveFailures++
	m.lastFailureTime = m.now()

	m.recentFailures = append(m.recentFailures, FailureRecord{
		Timestamp: m.lastFailureTime,
		Lead:      leadName,
		Error:     errorMsg,
		Category:  CategorizeError(errorMsg),
		URL:       url,
	})
	if len(m.recentFailures) > m.maxRecentFailures {
		m.recentFailures = m.recentFailures[1:]
	}
}

// GetHealthStatus returns the current health status
func (m *AuditMonitor) GetHealthStatus() HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := HealthStatus{
		IsHealthy:           true,
		TotalAudits:         m.totalAudits,
		SuccessfulAudits:    m.successfulAudits,
		FailedAudits:        m.failedAudits,
		SuccessRate:         1.0,
		ConsecutiveFailures: m.consecutiveFailures,
		FailuresByCategory:  make(map[string]int),
		RecentFailures:      make([]FailureRecord, len(m.recentFailures)),
		HealthIssues:        []string{},
		RecommendedActions:  []string{},
	}
	copy(status.RecentFailures, m.recentFailures)

	if m.totalAudits > 0 {
		status.SuccessRate = float64(m.successfulAudits) / float64(m.totalAudits)
	}
	if !m.lastFailureTime.IsZero() {
		t := m.lastFailureTime
		status.LastFailureTime = &t
	}
	if !m.lastSuccessTime.IsZero() {
		t := m.lastSuccessTime
		status.LastSuccessTime = &t
	}

	if m.totalAudits >= 10 && status.SuccessRate < 1.0-m.failureThreshold {
		status.IsHealthy = false
		status.HealthIssues = append(status.HealthIssues, "High audit failure rate detected (>20%)")
		status.RecommendedActions = append(status.RecommendedActions,
			"Check the audit provider's availability and API quota")
	}

	if m.consecutiveFailures >= m.consecutiveThreshold {
		status.IsHealthy = false
		status.HealthIssues = append(status.HealthIssues, "Multiple consecutive audit failures detected")
		status.RecommendedActions = append(status.RecommendedActions,
			"Pause discovery runs until the audit provider recovers")
	}

	m.analyzeFailurePatterns(&status)
	return status
}

// analyzeFailurePatterns flags a category that accounts for most recent failures
func (m *AuditMonitor) analyzeFailurePatterns(status *HealthStatus) {
	for _, failure := range m.recentFailures {
		status.FailuresByCategory[failure.Category]++
	}

	if len(m.recentFailures) < 3 {
		return
	}

	total := len(m.recentFailures)
	for category, count := range status.FailuresByCategory {
		if float64(count)/float64(total) <= 0.5 {
			continue
		}
		switch category {
		case CategoryTimeout:
			status.HealthIssues = append(status.HealthIssues, "Frequent audit timeouts detected")
			status.RecommendedActions = append(status.RecommendedActions,
				"Increase the audit timeout or lower the number of concurrent audits")
		case CategoryRateLimit:
			status.HealthIssues = append(status.HealthIssues, "Audit provider rate limiting detected")
			status.RecommendedActions = append(status.RecommendedActions,
				"Reduce audit frequency and back off between batches")
		case CategoryTLS:
			status.HealthIssues = append(status.HealthIssues, "Certificate errors on audited sites")
			status.RecommendedActions = append(status.RecommendedActions,
				"Treat broken HTTPS as an outreach opportunity rather than a provider fault")
		case CategoryNetwork:
			status.HealthIssues = append(status.HealthIssues, "Network connectivity issues detected")
			status.RecommendedActions = append(status.RecommendedActions,
				"Check network connectivity and DNS resolution")
		}
	}
}

// CategorizeError maps an audit error message to a failure category
func CategorizeError(errorMsg string) string {
	msg := strings.ToLower(errorMsg)

	switch {
	case containsAny(msg, "timeout", "timed out", "deadline"):
		return CategoryTimeout
	case containsAny(msg, "rate limit", "429", "quota"):
		return CategoryRateLimit
	case containsAny(msg, "certificate", "tls", "ssl", "x509"):
		return CategoryTLS
	case containsAny(msg, "network", "connection", "dns", "no such host"):
		return CategoryNetwork
	case containsAny(msg, "404", "500", "502", "503", "status code"):
		return CategoryHTTP
	}
	return CategoryOther
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Reset clears all monitoring data
func (m *AuditMonitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalAudits = 0
	m.successfulAudits = 0
	m.failedAudits = 0
	m.consecutiveFailures = 0
	m.lastFailureTime = time.Time{}
	m.lastSuccessTime = time.Time{}
	m.recentFailures = m.recentFailures[:0]
}

// IsHealthy returns true if the audit provider is within healthy parameters
func (m *AuditMonitor) IsHealthy() bool {
	return m.GetHealthStatus().IsHealthy
}

// GetFailureRate returns the current failure rate
func (m *AuditMonitor) GetFailureRate() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.totalAudits == 0 {
		return 0.0
	}
	return float64(m.failedAudits) / float64(m.totalAudits)
}
