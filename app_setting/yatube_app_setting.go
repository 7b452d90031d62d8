package app_setting

import (
	"io/ioutil"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	CacheBackendLocal = "local"
	CacheBackendRedis = "redis"

	FileStoreLocal = "local"
	FileStoreS3    = "s3"
)

// This is the app setting for the yatube api server. Every field can be
// overwritten by an environment variable of the same name.
type YatubeAppSetting struct {
	// Number of posts rendered on a single page of any post list.
	PAGINATOR_COUNT int `yaml:"PAGINATOR_COUNT"`
	// Directory uploaded images are written to when FILE_STORE is "local".
	MEDIA_ROOT string `yaml:"MEDIA_ROOT"`
	// URL prefix uploaded images are served under.
	MEDIA_URL string `yaml:"MEDIA_URL"`
	// "local" for an in-process LRU cache, "redis" for a shared one.
	CACHE_BACKEND string `yaml:"CACHE_BACKEND"`
	// Lifetime of the cached index page fragment.
	INDEX_CACHE_SECONDS int64 `yaml:"INDEX_CACHE_SECONDS"`
	// Max number of entries kept by the local cache backend.
	LRU_CACHE_SIZE int `yaml:"LRU_CACHE_SIZE"`
	// "local" or "s3".
	FILE_STORE string `yaml:"FILE_STORE"`
	S3_BUCKET  string `yaml:"S3_BUCKET"`
	S3_REGION  string `yaml:"S3_REGION"`
	// Public prefix of uploaded objects, e.g. a CloudFront distribution.
	S3_URL_PREFIX string `yaml:"S3_URL_PREFIX"`
	// HMAC key signing session cookies. Must be set in production.
	SECRET_KEY string `yaml:"SECRET_KEY"`
	// Address the api server listens on.
	LISTEN_ADDR string `yaml:"LISTEN_ADDR"`
}

func DefaultYatubeAppSetting() YatubeAppSetting {
	return YatubeAppSetting{
		PAGINATOR_COUNT:     10,
		MEDIA_ROOT:          "media",
		MEDIA_URL:           "/media/",
		CACHE_BACKEND:       CacheBackendLocal,
		INDEX_CACHE_SECONDS: 20,
		LRU_CACHE_SIZE:      1024,
		FILE_STORE:          FileStoreLocal,
		S3_REGION:           "us-west-1",
		SECRET_KEY:          "dev-only-secret-key",
		LISTEN_ADDR:         ":8080",
	}
}

// IndexCacheTTL is INDEX_CACHE_SECONDS as a duration.
func (s YatubeAppSetting) IndexCacheTTL() time.Duration {
	return time.Duration(s.INDEX_CACHE_SECONDS) * time.Second
}

// ParseYatubeAppSetting reads the yaml at path on top of the defaults, then
// applies environment overrides. An empty path skips the file.
func ParseYatubeAppSetting(path string) (YatubeAppSetting, error) {
	c := DefaultYatubeAppSetting()
	if path != "" {
		yamlFile, err := ioutil.ReadFile(path)
		if err != nil {
			return c, errors.Wrap(err, "fail to read app setting")
		}
		if err = yaml.Unmarshal(yamlFile, &c); err != nil {
			return c, errors.Wrap(err, "fail to unmarshal app setting")
		}
	}
	if err := c.applyEnvOverrides(); err != nil {
		return c, err
	}
	return c, c.Validate()
}

func (s *YatubeAppSetting) applyEnvOverrides() error {
	strs := map[string]*string{
		"MEDIA_ROOT":    &s.MEDIA_ROOT,
		"MEDIA_URL":     &s.MEDIA_URL,
		"CACHE_BACKEND": &s.CACHE_BACKEND,
		"FILE_STORE":    &s.FILE_STORE,
		"S3_BUCKET":     &s.S3_BUCKET,
		"S3_REGION":     &s.S3_REGION,
		"S3_URL_PREFIX": &s.S3_URL_PREFIX,
		"SECRET_KEY":    &s.SECRET_KEY,
		"LISTEN_ADDR":   &s.LISTEN_ADDR,
	}
	for name, field := range strs {
		if v, ok := os.LookupEnv(name); ok {
			*field = v
		}
	}

	ints := map[string]*int{
		"PAGINATOR_COUNT": &s.PAGINATOR_COUNT,
		"LRU_CACHE_SIZE":  &s.LRU_CACHE_SIZE,
	}
	for name, field := range ints {
		if v, ok := os.LookupEnv(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return errors.Wrapf(err, "invalid %s", name)
			}
			*field = n
		}
	}

	if v, ok := os.LookupEnv("INDEX_CACHE_SECONDS"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return errors.Wrap(err, "invalid INDEX_CACHE_SECONDS")
		}
		s.INDEX_CACHE_SECONDS = n
	}
	return nil
}

func (s YatubeAppSetting) Validate() error {
	if s.PAGINATOR_COUNT <= 0 {
		return errors.New("PAGINATOR_COUNT should be > 0")
	}
	if s.CACHE_BACKEND != CacheBackendLocal && s.CACHE_BACKEND != CacheBackendRedis {
		return errors.Errorf("unknown CACHE_BACKEND %q", s.CACHE_BACKEND)
	}
	if s.FILE_STORE != FileStoreLocal && s.FILE_STORE != FileStoreS3 {
		return errors.Errorf("unknown FILE_STORE %q", s.FILE_STORE)
	}
	if s.FILE_STORE == FileStoreS3 && s.S3_BUCKET == "" {
		return errors.New("S3_BUCKET is required when FILE_STORE is s3")
	}
	if s.SECRET_KEY == "" {
		return errors.New("SECRET_KEY should not be empty")
	}
	return nil
}
