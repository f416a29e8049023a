package service

import (
	"context"
	"log"
	"sync"
	"time"

	"PetAlert-App/internal/domain/model"
)

// ParallelAddressEnricher は住所が空のアラートを並行で逆ジオコーディングして補完する
type ParallelAddressEnricher struct {
	geocoder      *ReverseGeocoder
	maxGoroutines int
}

// NewParallelAddressEnricher は新しいインスタンスを作成
func NewParallelAddressEnricher(geocoder *ReverseGeocoder) *ParallelAddressEnricher {
	return &ParallelAddressEnricher{
		geocoder:      geocoder,
		maxGoroutines: 5, // 同時実行数を制限
	}
}

type enrichResult struct {
	index   int
	address string
	err     error
}

// Enrich は alerts の Location を直接書き換える。失敗したものは空のまま
func (p *ParallelAddressEnricher) Enrich(ctx context.Context, alerts []model.AlertWithDistance) {
	start := time.Now()

	semaphore := make(chan struct{}, p.maxGoroutines)
	results := make(chan enrichResult, len(alerts))
	var wg sync.WaitGroup

	for i := range alerts {
		if alerts[i].Location != "" {
			continue
		}
		coord := alerts[i].Coordinate()
		if coord == nil {
			continue
		}

		wg.Add(1)
		go func(index int, c model.Coordinate) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			result, err := p.geocoder.Lookup(ctx, c)
			if err != nil {
				results <- enrichResult{index: index, err: err}
				return
			}
			results <- enrichResult{index: index, address: result.Location}
		}(i, *coord)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	successCount, errorCount := 0, 0
	for r := range results {
		if r.err != nil {
			errorCount++
			continue
		}
		successCount++
		alerts[r.index].Location = r.address
	}

	if successCount+errorCount > 0 {
		log.Printf("✅ 住所補完完了: %v (成功:%d, 失敗:%d)", time.Since(start), successCount, errorCount)
	}
}
