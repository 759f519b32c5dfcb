package main

import (
	"flag"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// checkoutPayload mirrors the orders service CheckoutRequest.
type checkoutPayload struct {
	CustomerForm customerForm `json:"customer_form"`
	Cart         cart         `json:"cart"`
}

type customerForm struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	CcNumber      string `json:"cc_number"`
	CcExpiryMonth string `json:"cc_expiry_month"`
	CcExpiryYear  string `json:"cc_expiry_year"`
}

type cart struct {
	Items []cartItem `json:"items"`
}

type cartItem struct {
	BookID     int64 `json:"book_id"`
	Quantity   int   `json:"quantity"`
	Price      int64 `json:"price"`
	CategoryID int   `json:"category_id"`
}

type checkoutResponse struct {
	OrderID int64 `json:"order_id"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "orders service base URL")
	requests := flag.Int("n", 200, "total checkout requests")
	concurrency := flag.Int("c", 10, "concurrent workers")
	flag.Parse()

	runID := uuid.New().String()[:8]
	log.Printf("🚀 Run %s: %d checkouts against %s (%d workers)", runID, *requests, *baseURL, *concurrency)

	client := resty.New().
		SetBaseURL(*baseURL).
		SetTimeout(30 * time.Second)

	// The service seeds the catalog; book 1 is priced at 21999 in category 1.
	payload := checkoutPayload{
		CustomerForm: customerForm{
			Name:          "Load Tester " + runID,
			Address:       "1 Benchmark Way",
			Phone:         "(415) 555-0100",
			Email:         fmt.Sprintf("bench-%s@example.com", runID),
			CcNumber:      "4111-1111-1111-1111",
			CcExpiryMonth: "12",
			CcExpiryYear:  "2099",
		},
		Cart: cart{Items: []cartItem{
			{BookID: 1, Quantity: 2, Price: 21999, CategoryID: 1},
		}},
	}

	var (
		mu        sync.Mutex
		latencies []time.Duration
		failures  int
	)

	jobs := make(chan struct{})
	var wg sync.WaitGroup
	for w := 0; w < *concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				start := time.Now()
				var out checkoutResponse
				resp, err := client.R().
					SetBody(payload).
					SetResult(&out).
					Post("/api/orders")
				elapsed := time.Since(start)

				mu.Lock()
				if err != nil || resp.StatusCode() != 201 || out.OrderID <= 0 {
					failures++
				} else {
					latencies = append(latencies, elapsed)
				}
				mu.Unlock()
			}
		}()
	}

	startedAt := time.Now()
	for i := 0; i < *requests; i++ {
		jobs <- struct{}{}
	}
	close(jobs)
	wg.Wait()
	total := time.Since(startedAt)

	if len(latencies) == 0 {
		log.Fatalf("❌ All %d requests failed", *requests)
	}

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	fmt.Printf("\nRun %s results\n", runID)
	fmt.Printf("  requests:   %d (%d failed)\n", *requests, failures)
	fmt.Printf("  duration:   %s (%.1f req/s)\n", total.Round(time.Millisecond), float64(len(latencies))/total.Seconds())
	fmt.Printf("  p50:        %s\n", percentile(latencies, 0.50))
	fmt.Printf("  p95:        %s\n", percentile(latencies, 0.95))
	fmt.Printf("  p99:        %s\n", percentile(latencies, 0.99))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	idx := int(p * float64(len(sorted)-1))
	return sorted[idx].Round(time.Microsecond)
}
