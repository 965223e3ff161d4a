package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("TIRTA_TEST_MODE") == "" {
			_ = os.Setenv("TIRTA_TEST_MODE", "1")
		}
	})
}
