// SPDX-License-Identifier: MIT

package model_test

import (
	"fmt"
	"testing"

	"github.com/katalvlaran/prolongnet/config"
	"github.com/katalvlaran/prolongnet/model"
)

var sinkValues []float64

func BenchmarkPredict(b *testing.B) {
	cfg := config.Default()
	for _, latent := range []int{16, 64} {
		for _, n := range []int{128, 1024} {
			b.Run(fmt.Sprintf("latent=%d/n=%d", latent, n), func(b *testing.B) {
				mc := cfg.Model
				mc.LatentSize = latent
				m, err := model.New(mc, cfg.Run)
				if err != nil {
					b.Fatal(err)
				}
				g := pathGraph(b, n)
				b.ReportAllocs()
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					if sinkValues, err = m.Predict(g); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}
