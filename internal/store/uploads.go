package store

import (
	"database/sql"
	"fmt"
	"time"
)

// 上传状态
const (
	UploadStatusProcessing = "processing"
	UploadStatusCompleted  = "completed"
	UploadStatusFailed     = "failed"
)

// Upload 上传审计记录
type Upload struct {
	ID           int64      `json:"id"`
	UploadID     string     `json:"uploadId"`
	FileName     string     `json:"fileName"`
	Format       string     `json:"format"`
	FileSize     int64      `json:"fileSize"`
	FileHash     string     `json:"fileHash"`
	RowCount     int        `json:"rowCount"`
	ColumnCount  int        `json:"columnCount"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

// CreateUpload 创建上传记录，返回自增 id
func (s *Store) CreateUpload(uploadID, filename, format string, fileSize int64, fileHash string) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO uploads (upload_id, filename, file_format, file_size, file_hash, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`, uploadID, filename, format, fileSize, fileHash, UploadStatusProcessing)
	if err != nil {
		return 0, fmt.Errorf("failed to create upload log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get upload log id: %w", err)
	}
	return id, nil
}

// CompleteUpload 标记上传处理完成
func (s *Store) CompleteUpload(id int64, rowCount, columnCount int) error {
	_, err := s.db.Exec(`
		UPDATE uploads SET
			row_count = ?,
			column_count = ?,
			status = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, rowCount, columnCount, UploadStatusCompleted, id)
	if err != nil {
		return fmt.Errorf("failed to update upload log: %w", err)
	}
	return nil
}

// FailUpload 标记上传处理失败
func (s *Store) FailUpload(id int64, errorMessage string) error {
	_, err := s.db.Exec(`
		UPDATE uploads SET
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, UploadStatusFailed, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update upload log: %w", err)
	}
	return nil
}

// ListUploads 最近的上传记录（按 id 倒序）
func (s *Store) ListUploads(limit int) ([]Upload, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, upload_id, filename, file_format, file_size, file_hash,
			row_count, column_count, status, error_message, created_at, completed_at
		FROM uploads
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	defer rows.Close()

	result := make([]Upload, 0)
	for rows.Next() {
		var u Upload
		var completed sql.NullTime
		if err := rows.Scan(
			&u.ID, &u.UploadID, &u.FileName, &u.Format, &u.FileSize, &u.FileHash,
			&u.RowCount, &u.ColumnCount, &u.Status, &u.ErrorMessage, &u.CreatedAt, &completed,
		); err != nil {
			return nil, fmt.Errorf("failed to scan upload: %w", err)
		}
		if completed.Valid {
			t := completed.Time
			u.CompletedAt = &t
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

// CountUploads 上传记录总数
func (s *Store) CountUploads() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(1) FROM uploads`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count uploads: %w", err)
	}
	return n, nil
}
