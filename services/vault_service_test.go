package services

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ridesafe-http-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVaultService(t *testing.T) (InterfaceVaultService, *VaultService) {
	db := newTestDB(t)
	cfg := newTestConfig(t)
	key := bytes.Repeat([]byte{0x42}, 32)
	svc := NewVaultService(db, cfg, &fixedKeyService{key: key})
	return svc, svc.(*VaultService)
}

func TestVaultStoreAndRetrieve(t *testing.T) {
	svc, raw := newVaultService(t)

	payload := []byte("dashcam footage bytes")
	record, err := svc.StoreMedia(1, nil, "front", "secret-pass", bytes.NewReader(payload), "31.23,121.47")
	require.NoError(t, err)
	assert.NotZero(t, record.ID)
	assert.Contains(t, record.FilePath, "user_1")
	assert.True(t, strings.HasSuffix(record.FilePath, ".enc"))

	// 落盘的是密文
	stored, err := os.ReadFile(record.FilePath)
	require.NoError(t, err)
	assert.NotContains(t, string(stored), "dashcam footage")

	plain, err := svc.RetrieveMedia(record.FilePath, "secret-pass", 1)
	require.NoError(t, err)
	assert.Equal(t, payload, plain)

	// 访问不改变状态，可重复访问
	plain, err = svc.RetrieveMedia(record.FilePath, "secret-pass", 1)
	require.NoError(t, err)
	assert.Equal(t, payload, plain)
	_ = raw
}

func TestVaultStoreVehicleDirectory(t *testing.T) {
	svc, _ := newVaultService(t)

	vehicleID := uint(9)
	record, err := svc.StoreMedia(1, &vehicleID, "rear", "pass-word", bytes.NewReader([]byte("x")), "")
	require.NoError(t, err)
	assert.Contains(t, record.FilePath, filepath.Join("user_1", "vehicle_9"))
	assert.Contains(t, record.FilePath, "sos_media_rear_")
}

func TestVaultLargePayloadRoundTrip(t *testing.T) {
	svc, _ := newVaultService(t)

	// 跨越多个64KB分块，且最后一块不满
	payload := bytes.Repeat([]byte("abcdefgh"), 20000) // 160000字节
	record, err := svc.StoreMedia(1, nil, "front", "pass-word", bytes.NewReader(payload), "")
	require.NoError(t, err)

	plain, err := svc.RetrieveMedia(record.FilePath, "pass-word", 1)
	require.NoError(t, err)
	assert.Equal(t, payload, plain)
}

func TestVaultChunkAlignedPayload(t *testing.T) {
	svc, _ := newVaultService(t)

	// 正好整块对齐
	payload := bytes.Repeat([]byte{0x01}, vaultChunkSize*2)
	record, err := svc.StoreMedia(1, nil, "front", "pass-word", bytes.NewReader(payload), "")
	require.NoError(t, err)

	plain, err := svc.RetrieveMedia(record.FilePath, "pass-word", 1)
	require.NoError(t, err)
	assert.Equal(t, payload, plain)
}

func TestVaultEmptyPayload(t *testing.T) {
	svc, _ := newVaultService(t)

	record, err := svc.StoreMedia(1, nil, "front", "pass-word", bytes.NewReader(nil), "")
	require.NoError(t, err)

	plain, err := svc.RetrieveMedia(record.FilePath, "pass-word", 1)
	require.NoError(t, err)
	assert.Empty(t, plain)
}

func TestVaultAccessChecks(t *testing.T) {
	svc, _ := newVaultService(t)

	record, err := svc.StoreMedia(1, nil, "front", "right-pass", bytes.NewReader([]byte("evidence")), "")
	require.NoError(t, err)

	// 记录不存在
	_, err = svc.RetrieveMedia("no/such/path.enc", "right-pass", 1)
	assert.ErrorIs(t, err, ErrMediaNotFound)

	// 口令错误优先于归属校验
	_, err = svc.RetrieveMedia(record.FilePath, "wrong-pass", 2)
	assert.ErrorIs(t, err, ErrVaultPassword)

	// 口令正确但非归属者
	_, err = svc.RetrieveMedia(record.FilePath, "right-pass", 2)
	assert.ErrorIs(t, err, ErrVaultForbidden)
}

func TestVaultRejectsEmptyPassword(t *testing.T) {
	svc, _ := newVaultService(t)

	_, err := svc.StoreMedia(1, nil, "front", "", bytes.NewReader([]byte("x")), "")
	assert.ErrorIs(t, err, ErrVaultStorage)
}

func TestVaultDetectsTampering(t *testing.T) {
	svc, _ := newVaultService(t)

	record, err := svc.StoreMedia(1, nil, "front", "pass-word", bytes.NewReader([]byte("evidence payload")), "")
	require.NoError(t, err)

	// 翻转密文中间一个字节
	data, err := os.ReadFile(record.FilePath)
	require.NoError(t, err)
	data[len(data)/2] ^= 0xFF
	require.NoError(t, os.WriteFile(record.FilePath, data, 0600))

	_, err = svc.RetrieveMedia(record.FilePath, "pass-word", 1)
	assert.ErrorIs(t, err, ErrVaultStorage)
}

func TestVaultDetectsTruncation(t *testing.T) {
	svc, _ := newVaultService(t)

	record, err := svc.StoreMedia(1, nil, "front", "pass-word", bytes.NewReader(bytes.Repeat([]byte{0x02}, vaultChunkSize+100)), "")
	require.NoError(t, err)

	// 截掉末块
	data, err := os.ReadFile(record.FilePath)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(record.FilePath, data[:len(data)-200], 0600))

	_, err = svc.RetrieveMedia(record.FilePath, "pass-word", 1)
	assert.ErrorIs(t, err, ErrVaultStorage)
}

func TestVaultDetectsTrailingData(t *testing.T) {
	svc, _ := newVaultService(t)

	record, err := svc.StoreMedia(1, nil, "front", "pass-word", bytes.NewReader([]byte("evidence")), "")
	require.NoError(t, err)

	f, err := os.OpenFile(record.FilePath, os.O_APPEND|os.O_WRONLY, 0600)
	require.NoError(t, err)
	_, err = f.Write([]byte("extra"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = svc.RetrieveMedia(record.FilePath, "pass-word", 1)
	assert.ErrorIs(t, err, ErrVaultStorage)
}

func TestVaultRejectsBadMagic(t *testing.T) {
	svc, raw := newVaultService(t)

	record, err := svc.StoreMedia(1, nil, "front", "pass-word", bytes.NewReader([]byte("evidence")), "")
	require.NoError(t, err)

	data, err := os.ReadFile(record.FilePath)
	require.NoError(t, err)
	copy(data, "BOGUS1")
	require.NoError(t, os.WriteFile(record.FilePath, data, 0600))

	_, err = svc.RetrieveMedia(record.FilePath, "pass-word", 1)
	assert.ErrorIs(t, err, ErrVaultStorage)
	_ = raw
}

func TestVaultStoreCompensatesOnRecordFailure(t *testing.T) {
	svc, raw := newVaultService(t)

	first, err := svc.StoreMedia(1, nil, "front", "pass-word", bytes.NewReader([]byte("x")), "")
	require.NoError(t, err)

	// 预先占用唯一索引制造插入冲突
	dup := &models.SecureMedia{
		UserID:       1,
		FilePath:     first.FilePath,
		PasswordHash: first.PasswordHash,
	}
	err = raw.DB.Create(dup).Error
	require.Error(t, err)

	// 关闭底层连接使记录插入必然失败
	sqlDB, err := raw.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = svc.StoreMedia(1, nil, "front", "pass-word", bytes.NewReader([]byte("y")), "")
	assert.ErrorIs(t, err, ErrVaultStorage)

	// 密文文件已被补偿删除，目录下只剩第一次成功写入的文件
	entries, err := os.ReadDir(filepath.Dir(first.FilePath))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
