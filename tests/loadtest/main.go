package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 50
	testDuration = 10 * time.Second
	numClients   = 100
)

var priorities = []string{"urgent", "high", "normal", "low"}

var authors = []string{"ops", "facilities", "hr", "frontdesk", "security"}

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== SBBD Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s | Clients: %d\n\n", numWorkers, testDuration, numClients)

	// Wait for server
	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Phase 1: Seed messages and heartbeats
	fmt.Println("\n--- Phase 1: Seeding (POST /api/messages + heartbeats) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.7 {
			return doCreateMessage(rng)
		}
		return doHeartbeat(rng)
	})

	// Phase 2: Mixed read/write load
	fmt.Println("\n--- Phase 2: Mixed load (40% write, 60% read) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.25:
			return doCreateMessage(rng)
		case r < 0.40:
			return doHeartbeat(rng)
		case r < 0.60:
			return doGetActive(rng)
		case r < 0.80:
			return doGetPaginated(rng)
		case r < 0.90:
			return doGetOnlineClients()
		default:
			return doGetStats()
		}
	})

	// Phase 3: Read-heavy load, the kiosk steady state
	fmt.Println("\n--- Phase 3: Read-heavy load (5% write, 95% read) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.05:
			return doHeartbeat(rng)
		case r < 0.45:
			return doGetActive(rng)
		case r < 0.75:
			return doGetPaginated(rng)
		case r < 0.90:
			return doGetOnlineClients()
		default:
			return doGetStats()
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-30s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + repeat("-", 96))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-30s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + repeat("-", 96))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func doCreateMessage(rng *rand.Rand) result {
	body := map[string]interface{}{
		"title":    fmt.Sprintf("Notice %d", rng.Intn(100000)),
		"content":  "Generated by the load tester.",
		"author":   authors[rng.Intn(len(authors))],
		"priority": priorities[rng.Intn(len(priorities))],
	}
	if rng.Float64() < 0.3 {
		body["expires_at"] = time.Now().UTC().Add(time.Duration(rng.Intn(3600)) * time.Second).Format(time.RFC3339)
	}

	data, _ := json.Marshal(body)
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/api/messages", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /api/messages", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /api/messages", resp.StatusCode, lat, resp.StatusCode != 201}
}

func doHeartbeat(rng *rand.Rand) result {
	body := map[string]interface{}{
		"id":        fmt.Sprintf("kiosk_%d", rng.Intn(numClients)),
		"name":      "Load kiosk",
		"is_online": true,
	}
	data, _ := json.Marshal(body)
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/api/clients", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /api/clients", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /api/clients", resp.StatusCode, lat, resp.StatusCode != 204}
}

func doGetActive(_ *rand.Rand) result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/api/messages/active")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /api/messages/active", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /api/messages/active", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetPaginated(rng *rand.Rand) result {
	url := fmt.Sprintf("%s/api/messages/paginated?page=%d&page_size=20", baseURL, rng.Intn(5)+1)
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{"GET /api/messages/paginated", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /api/messages/paginated", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetOnlineClients() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/api/clients/online")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /api/clients/online", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /api/clients/online", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetStats() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/api/stats")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /api/stats", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /api/stats", resp.StatusCode, lat, resp.StatusCode != 200}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
