package lru_test

import (
	"fmt"
	"sync"

	lru "github.com/venkatsvpr/golang-lru/v3"
)

func ExampleCache() {
	cache, err := lru.New[int, int](5)
	if err != nil {
		panic(err)
	}
	defer cache.Close()

	for i := 0; i < 5; i++ {
		cache.Add(i, i)
	}
	cache.Get(1)
	keys, _ := cache.KeysByRecency()
	fmt.Println(keys)

	cache.Add(5, 5)
	cache.Add(6, 6)
	keys, _ = cache.KeysByRecency()
	fmt.Println(keys)

	_, ok, _ := cache.Get(0)
	fmt.Println("has 0:", ok)
	// Output:
	// [1 4 3 2 0]
	// [6 5 1 4 3]
	// has 0: false
}

func ExampleCache_Clone() {
	cache, err := lru.New[string, string](16)
	if err != nil {
		panic(err)
	}
	defer cache.Close()

	var wg sync.WaitGroup
	for _, name := range []string{"left", "right"} {
		h := cache.Clone()
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer h.Close()
			h.Add(name, "written by "+name)
		}()
	}
	wg.Wait()

	v, _, _ := cache.Get("left")
	fmt.Println(v)
	n, _ := cache.Len()
	fmt.Println(n)
	// Output:
	// written by left
	// 2
}
