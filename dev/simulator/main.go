package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"time"
)

var baseURL = getenv("BASE_URL", "http://localhost:8080")

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func createAccount(currency string) (string, error) {
	body, _ := json.Marshal(map[string]string{"currency": currency, "type": "MAIN"})
	resp, err := http.Post(baseURL+"/accounts", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("create account: HTTP %d", resp.StatusCode)
	}
	var data struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", err
	}
	return data.ID, nil
}

func deposit(id string, amount int) {
	endpoint := fmt.Sprintf("/accounts/%s/deposit", id)
	body, _ := json.Marshal(map[string]string{"amount": fmt.Sprintf("%d", amount)})
	resp, err := http.Post(baseURL+endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("deposit error: %v", err)
		return
	}
	resp.Body.Close()
}

func transfer(from, to string, amount int) {
	body, _ := json.Marshal(map[string]string{"from": from, "to": to, "amount": fmt.Sprintf("%d", amount)})
	resp, err := http.Post(baseURL+"/transfers", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("transfer error: %v", err)
		return
	}
	resp.Body.Close()
}

func randomOp(ids []string) {
	switch rand.Intn(2) {
	case 0:
		id := ids[rand.Intn(len(ids))]
		deposit(id, rand.Intn(100)+1)
	case 1:
		from := ids[rand.Intn(len(ids))]
		to := ids[rand.Intn(len(ids))]
		for to == from {
			to = ids[rand.Intn(len(ids))]
		}
		transfer(from, to, rand.Intn(30)+1)
	}
}

// main drives a small random workload of account creation, deposits,
// and transfers against a running instance of the API, for manual
// exploratory testing against a dev deployment.
func main() {
	const (
		numAccounts = 100
		totalOps    = 10000
		blockSize   = 100
		blockPause  = 100 * time.Millisecond
	)

	ids := make([]string, 0, numAccounts)
	for i := 0; i < numAccounts; i++ {
		id, err := createAccount("USD")
		if err != nil {
			log.Fatalf("cannot create account %d: %v", i, err)
		}
		ids = append(ids, id)
		deposit(id, 1000)
	}

	for sent := 0; sent < totalOps; {
		var wg sync.WaitGroup
		for i := 0; i < blockSize && sent < totalOps; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				randomOp(ids)
			}()
			sent++
		}
		wg.Wait()
		time.Sleep(blockPause)
	}

	log.Printf("simulation complete: %d accounts, %d operations", numAccounts, totalOps)
}
