package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/DrStiev/MyRedis/client"
	"github.com/DrStiev/MyRedis/lib/utils"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:1234", "server address")
	requests := flag.Int("n", 100000, "total number of requests")
	conc := flag.Int("c", 8, "number of concurrent clients")
	flag.Parse()

	ctx := context.Background()
	connPool := client.NewPool(ctx, *addr)
	connPool.Config.MaxTotal = *conc
	defer connPool.Close(ctx)

	perWorker := *requests / *conc
	var wg sync.WaitGroup
	start := time.Now()
	for w := 0; w < *conc; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			raw, err := connPool.BorrowObject(ctx)
			if err != nil {
				fmt.Fprintln(os.Stderr, "borrow:", err)
				return
			}
			c := raw.(*client.Client)
			defer connPool.ReturnObject(ctx, raw)

			for i := 0; i < perWorker; i++ {
				key := fmt.Sprintf("key:%d:%d", w, i)
				if _, err := c.Send(utils.ToCmdLine("set", key, "value")); err != nil {
					fmt.Fprintln(os.Stderr, "set:", err)
					return
				}
				if _, err := c.Send(utils.ToCmdLine("get", key)); err != nil {
					fmt.Fprintln(os.Stderr, "get:", err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	elapsed := time.Since(start)
	total := perWorker * *conc * 2
	fmt.Printf("%d requests in %v, %.0f req/s\n",
		total, elapsed, float64(total)/elapsed.Seconds())
}
