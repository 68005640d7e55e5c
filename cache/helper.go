package cache

import "fmt"

const (
	cacheKey      = "photo:%s:%s"
	cacheNamesKey = "photoNames:%s"
)

func constructKey(catID, photoName string) string {
	return fmt.Sprintf(cacheKey, catID, photoName)
}

func constructNamesKey(catID string) string {
	return fmt.Sprintf(cacheNamesKey, catID)
}
