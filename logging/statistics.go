package logging

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Statistics represents the collected request statistics
type Statistics struct {
	UniqueVisitors   map[string]time.Time `json:"uniqueVisitors"`   // IP -> Last Visit Time
	AnalysisRequests int                  `json:"analysisRequests"` // Total number of analysis requests
	ErrorCount       int                  `json:"errorCount"`
	PopularURLs      map[string]int       `json:"popularUrls"`     // URL -> Count
	AverageLoadTime  float64              `json:"averageLoadTime"` // milliseconds
	TotalLoadTime    float64              `json:"totalLoadTime"`
	RequestCount     int                  `json:"requestCount"`
	LastPersisted    time.Time            `json:"lastPersisted"`

	path    string
	devMode bool
	mutex   sync.RWMutex
}

// NewStatistics creates statistics persisted at path, loading any
// previously saved values. devMode exposes popular URLs in GetStatistics.
func NewStatistics(path string, devMode bool) (*Statistics, error) {
	s := &Statistics{
		UniqueVisitors: make(map[string]time.Time),
		PopularURLs:    make(map[string]int),
		LastPersisted:  time.Now(),
		path:           path,
		devMode:        devMode,
	}

	if err := s.Load(); err != nil {
		return s, err
	}
	return s, nil
}

// TrackVisitor records a unique visitor
func (s *Statistics) TrackVisitor(ip string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.UniqueVisitors[ip] = time.Now()
}

// cleanURL reduces an analyzed URL to scheme, host and path
func cleanURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return ""
	}

	// Don't track local addresses
	if strings.Contains(u.Host, "localhost") || strings.Contains(u.Host, "127.0.0.1") {
		return ""
	}

	clean := u.Scheme + "://" + u.Host
	if u.Path != "" && u.Path != "/" {
		clean += u.Path
	}

	return strings.TrimSuffix(clean, "/")
}

// TrackAnalysis records an analysis request for the analyzed page URL
func (s *Statistics) TrackAnalysis(pageURL string, loadTime float64, hasError bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.AnalysisRequests++

	if cleaned := cleanURL(pageURL); cleaned != "" {
		s.PopularURLs[cleaned]++
	}

	if hasError {
		s.ErrorCount++
	}

	s.TotalLoadTime += loadTime
	s.RequestCount++
	s.AverageLoadTime = s.TotalLoadTime / float64(s.RequestCount)
}

// uniqueVisitors24h counts visitors seen in the last 24 hours. Callers hold the lock.
func (s *Statistics) uniqueVisitors24h() int {
	count := 0
	cutoff := time.Now().Add(-24 * time.Hour)

	for _, lastVisit := range s.UniqueVisitors {
		if lastVisit.After(cutoff) {
			count++
		}
	}

	return count
}

// popularURLs returns the n most analyzed URLs. Callers hold the lock.
func (s *Statistics) popularURLs(n int) map[string]int {
	urls := make([]string, 0, len(s.PopularURLs))
	for u := range s.PopularURLs {
		urls = append(urls, u)
	}
	sort.Slice(urls, func(i, j int) bool {
		if s.PopularURLs[urls[i]] != s.PopularURLs[urls[j]] {
			return s.PopularURLs[urls[i]] > s.PopularURLs[urls[j]]
		}
		return urls[i] < urls[j]
	})

	result := make(map[string]int)
	for i := 0; i < len(urls) && i < n; i++ {
		result[urls[i]] = s.PopularURLs[urls[i]]
	}
	return result
}

// errorRate returns the error rate as a percentage. Callers hold the lock.
func (s *Statistics) errorRate() float64 {
	if s.AnalysisRequests == 0 {
		return 0
	}
	return (float64(s.ErrorCount) / float64(s.AnalysisRequests)) * 100
}

// TotalRequests returns the number of tracked analysis requests
func (s *Statistics) TotalRequests() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.AnalysisRequests
}

// Save persists the statistics to disk
func (s *Statistics) Save() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.LastPersisted = time.Now()

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("could not encode statistics: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("could not write statistics file: %w", err)
	}

	return nil
}

// Load reads the statistics from disk. A missing file is not an error.
func (s *Statistics) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("could not open statistics file: %w", err)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := json.Unmarshal(data, s); err != nil {
		return fmt.Errorf("could not decode statistics: %w", err)
	}
	if s.UniqueVisitors == nil {
		s.UniqueVisitors = make(map[string]time.Time)
	}
	if s.PopularURLs == nil {
		s.PopularURLs = make(map[string]int)
	}

	return nil
}

// GetStatistics returns a summary of the statistics. Popular URLs are only
// included in development mode.
func (s *Statistics) GetStatistics() map[string]interface{} {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	result := map[string]interface{}{
		"uniqueVisitors24h": s.uniqueVisitors24h(),
		"totalRequests":     s.AnalysisRequests,
		"errorRate":         s.errorRate(),
		"averageLoadTime":   s.AverageLoadTime,
	}
	if s.devMode {
		result["popularUrls"] = s.popularURLs(5)
	}
	return result
}
