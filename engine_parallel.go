package docscan

import (
	"runtime"
	"sync"

	"github.com/jward/docscan/internal/jsast"
	"github.com/jward/docscan/internal/store"
)

// workItem holds everything the parse and classify phases need for a file.
type workItem struct {
	path      string
	slashPath string
	lang      string
	fileID    int64
	src       []byte

	// oldReexport is the re-export recorded by the previous scan, compared
	// against the new one to find importers that must be reclassified.
	oldReexport string

	file  *jsast.File
	batch *store.BatchedStore // nil in serial mode
	err   error
}

// forEach applies fn to every item. With WithParallel (the default) items
// are spread over min(NumCPU, len(items)) workers; fn must only touch its
// own item. In serial mode items are processed in order.
func (e *Engine) forEach(items []*workItem, fn func(*workItem)) {
	if len(items) == 0 {
		return
	}
	if !e.useParallel {
		for _, it := range items {
			fn(it)
		}
		return
	}

	numWorkers := min(runtime.NumCPU(), len(items))
	if numWorkers < 1 {
		numWorkers = 1
	}

	workCh := make(chan *workItem, len(items))
	for _, it := range items {
		workCh <- it
	}
	close(workCh)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for it := range workCh {
				fn(it)
			}
		}()
	}
	wg.Wait()
}
