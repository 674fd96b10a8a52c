package shared

import "testing"

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"STORE_BACKEND", "KV_PREFIX", "STRICT_ROOMS", "SEED_DEMO", "QUERY_PAGE_SIZE", "DEFAULT_CITY"} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.StoreBackend != "sqlite" {
		t.Errorf("expected sqlite backend, got %q", c.StoreBackend)
	}
	if c.KVPrefix != "HOTEL_APP_" {
		t.Errorf("unexpected prefix %q", c.KVPrefix)
	}
	if !c.StrictRooms || c.SeedDemo {
		t.Errorf("unexpected flags strict=%v seed=%v", c.StrictRooms, c.SeedDemo)
	}
	if c.QueryPageSize != 5 || c.AdminPageSize != 10 {
		t.Errorf("unexpected page sizes %d/%d", c.QueryPageSize, c.AdminPageSize)
	}
	if c.DefaultCity != "上海" {
		t.Errorf("unexpected city %q", c.DefaultCity)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("STRICT_ROOMS", "false")
	t.Setenv("SEED_DEMO", "1")
	t.Setenv("RATE_LIMIT_RPS", "3")
	t.Setenv("REDIS_DB", "not-a-number")

	c := Load()
	if c.StoreBackend != "redis" || c.StrictRooms || !c.SeedDemo || c.RateLimitRPS != 3 {
		t.Fatalf("overrides not applied: %+v", c)
	}
	if c.RedisDB != 0 {
		t.Fatalf("bad int should fall back to default, got %d", c.RedisDB)
	}
}

func TestLoad_UnknownBackendFallsBack(t *testing.T) {
	t.Setenv("STORE_BACKEND", "etcd")
	if c := Load(); c.StoreBackend != "sqlite" {
		t.Fatalf("expected sqlite fallback, got %q", c.StoreBackend)
	}
}
