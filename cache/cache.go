package cache

import (
	"bytes"
	"crypto/md5"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/birkelund/boltdbcache"

	"github.com/pkg/errors"

	"github.com/gregjones/httpcache"
)

// Cache keeps api response bodies around for a validity period
type Cache struct {
	httpcache.Cache
	validity time.Duration
	now      func() time.Time
}

// NewCache opens (or creates) a bolt db named bucketName inside the user's cache dir
func NewCache(bucketName string, validity time.Duration) (cache *Cache, err error) {
	if cacheDir, err := os.UserCacheDir(); err != nil {
		return nil, err
	} else {
		c, err := boltdbcache.New(filepath.Join(cacheDir, bucketName))
		if err != nil {
			return nil, errors.Wrap(err, "couldn't open the cache db")
		}
		cache = Wrap(c, validity)
	}
	return
}

// NewMemoryCache is a process-local cache
func NewMemoryCache(validity time.Duration) *Cache {
	return Wrap(httpcache.NewMemoryCache(), validity)
}

// Wrap adds expiry on top of any httpcache backend
func Wrap(backend httpcache.Cache, validity time.Duration) *Cache {
	return &Cache{Cache: backend, validity: validity, now: time.Now}
}

type cachePayload struct {
	CreationTime time.Time
	Body         []byte
}

// WriteBody stores the body fetched from url on behalf of user
func (cache Cache) WriteBody(user, url string, body []byte) error {
	cacheKey := keyFor(user, url)
	toMarshal := cachePayload{CreationTime: cache.now(), Body: body}

	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)
	if err := encoder.Encode(toMarshal); err != nil {
		return errors.Wrap(err, "cache marshaling error")
	}

	cache.Set(cacheKey, buf.Bytes())

	return nil
}

// ReadBody returns a fresh body previously stored for user and url
func (cache Cache) ReadBody(user, url string) ([]byte, error) {
	cacheKey := keyFor(user, url)

	wt := cachePayload{}
	item, ok := cache.Get(cacheKey)
	if !ok {
		return nil, fmt.Errorf("no cache for key %s", cacheKey)
	}

	buf := bytes.NewBuffer(item)

	decoder := gob.NewDecoder(buf)
	err := decoder.Decode(&wt)
	if err != nil {
		return nil, errors.Wrap(err, "cache unmarshaling error")
	}

	if cache.now().Sub(wt.CreationTime) > cache.validity {
		cache.Delete(cacheKey)
		return nil, fmt.Errorf("cache expired for key %s", cacheKey)
	}

	return wt.Body, nil
}

// Forget drops whatever is stored for user and url
func (cache Cache) Forget(user, url string) {
	cache.Delete(keyFor(user, url))
}

// responses differ per set of credentials, so the caller's identity is part of the key
func keyFor(user, url string) string {
	sum := md5.Sum([]byte(user + "\x00" + url))

	return fmt.Sprintf("body-%s", hex.EncodeToString(sum[:]))
}
