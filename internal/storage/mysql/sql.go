package mysql

// `key` is reserved in MySQL, hence the prefixed column names.
const createTableSQL = `
CREATE TABLE IF NOT EXISTS kv_entries (
  kv_key     VARCHAR(191) NOT NULL PRIMARY KEY,
  kv_value   LONGTEXT     NOT NULL,
  updated_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
) CHARACTER SET utf8mb4
`

const getSQL = `SELECT kv_value FROM kv_entries WHERE kv_key = ?`

const upsertSQL = `
INSERT INTO kv_entries (kv_key, kv_value)
VALUES (?, ?)
ON DUPLICATE KEY UPDATE
  kv_value   = VALUES(kv_value),
  updated_at = CURRENT_TIMESTAMP
`

const deleteSQL = `DELETE FROM kv_entries WHERE kv_key = ?`
