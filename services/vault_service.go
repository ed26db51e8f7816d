package services

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"ridesafe-http-service/config"
	"ridesafe-http-service/models"
	"ridesafe-http-service/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 保险库访问错误，控制器据此映射错误码
var (
	ErrMediaNotFound  = errors.New("媒体记录不存在")
	ErrVaultPassword  = errors.New("访问口令错误")
	ErrVaultForbidden = errors.New("无权访问该媒体记录")
	ErrVaultStorage   = errors.New("媒体存储或解密失败")
)

// 密文文件格式：
//
//	魔数 "RSVLT1"，随后为若干分块帧：
//	[1字节末块标志][12字节随机nonce][4字节大端密文长度][密文]
//
// 每块独立做AES-256-GCM认证加密，附加数据绑定块序号和末块标志，
// 块被篡改、重排、截断或追加都会导致解密失败而不是返回错误明文
var vaultMagic = []byte("RSVLT1")

// 分块明文大小；大文件按块流式加解密，内存占用有上界
const vaultChunkSize = 64 * 1024

// InterfaceVaultService 定义加密媒体保险库接口
type InterfaceVaultService interface {
	StoreMedia(userID uint, vehicleID *uint, cameraType, password string, media io.Reader, locationTag string) (*models.SecureMedia, error)
	RetrieveMedia(filePath, password string, requesterID uint) ([]byte, error)
}

// VaultService 加密存储音视频证据并执行口令与归属双重访问控制
// 主密钥由密钥管理服务注入，进程生命周期内所有加解密使用同一密钥
type VaultService struct {
	DB     *gorm.DB
	Config *config.Config
	Keys   InterfaceVaultKeyService
}

// NewVaultService 创建保险库服务
func NewVaultService(db *gorm.DB, cfg *config.Config, keyService InterfaceVaultKeyService) InterfaceVaultService {
	return &VaultService{
		DB:     db,
		Config: cfg,
		Keys:   keyService,
	}
}

// mediaDir 返回按归属者和车辆划分的存储目录
func (s *VaultService) mediaDir(userID uint, vehicleID *uint) string {
	dir := filepath.Join(s.Config.SecureStorageDir, fmt.Sprintf("user_%d", userID))
	if vehicleID != nil {
		dir = filepath.Join(dir, fmt.Sprintf("vehicle_%d", *vehicleID))
	}
	return dir
}

// mediaFileName 生成密文文件名
// 时间戳精度到秒，同一秒内的连续写入靠随机后缀避免冲突
func mediaFileName(cameraType string) string {
	timestamp := time.Now().Format("20060102_150405")
	suffix := uuid.New().String()[:8]
	return fmt.Sprintf("sos_media_%s_%s_%s.enc", cameraType, timestamp, suffix)
}

// StoreMedia 加密并持久化一段媒体数据
// 密文写入和记录插入任一失败都会回收已产生的部分写入，
// 不会留下无记录的密文文件或指向缺失文件的记录
func (s *VaultService) StoreMedia(userID uint, vehicleID *uint, cameraType, password string, media io.Reader, locationTag string) (*models.SecureMedia, error) {
	if password == "" {
		return nil, fmt.Errorf("%w: 访问口令不能为空", ErrVaultStorage)
	}
	if cameraType == "" {
		cameraType = "front"
	}

	dir := s.mediaDir(userID, vehicleID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVaultStorage, err)
	}

	filePath := filepath.Join(dir, mediaFileName(cameraType))

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVaultStorage, err)
	}

	if err := s.encryptStream(media, file); err != nil {
		file.Close()
		os.Remove(filePath)
		return nil, fmt.Errorf("%w: %v", ErrVaultStorage, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("%w: %v", ErrVaultStorage, err)
	}

	passwordHash, err := utils.HashVaultPassword(password)
	if err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("%w: %v", ErrVaultStorage, err)
	}

	record := &models.SecureMedia{
		UserID:       userID,
		VehicleID:    vehicleID,
		FilePath:     filePath,
		PasswordHash: passwordHash,
		CameraType:   cameraType,
		Location:     locationTag,
	}

	if err := s.DB.Create(record).Error; err != nil {
		// 记录插入失败时补偿删除已写入的密文
		if removeErr := os.Remove(filePath); removeErr != nil {
			config.Error("补偿删除密文文件失败: %v", removeErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrVaultStorage, err)
	}

	config.Info("媒体已加密存储: user=%d path=%s", userID, filePath)
	return record, nil
}

// RetrieveMedia 校验口令与归属后解密返回媒体数据
// 校验顺序固定：记录存在 -> 口令 -> 归属 -> 解密；
// 每次访问都重新执行全部校验，不存在"已解锁"状态。
// 只会打开记录中保存的路径，调用方传入的路径仅用于查找记录
func (s *VaultService) RetrieveMedia(filePath, password string, requesterID uint) ([]byte, error) {
	var record models.SecureMedia
	err := s.DB.Where("file_path = ?", filePath).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMediaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVaultStorage, err)
	}

	if !utils.CheckVaultPassword(password, record.PasswordHash) {
		return nil, ErrVaultPassword
	}

	if record.UserID != requesterID {
		return nil, ErrVaultForbidden
	}

	file, err := os.Open(record.FilePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVaultStorage, err)
	}
	defer file.Close()

	var plaintext bytes.Buffer
	if err := s.decryptStream(file, &plaintext); err != nil {
		// 解密失败意味着密文被篡改或损坏，绝不返回未通过认证的数据
		return nil, fmt.Errorf("%w: %v", ErrVaultStorage, err)
	}

	return plaintext.Bytes(), nil
}

// newAEAD 用注入的主密钥构造AES-256-GCM
func (s *VaultService) newAEAD() (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.Keys.Key())
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// chunkAAD 构造分块的附加认证数据：块序号+末块标志
func chunkAAD(index uint64, last byte) []byte {
	aad := make([]byte, 9)
	binary.BigEndian.PutUint64(aad, index)
	aad[8] = last
	return aad
}

// encryptStream 按块流式加密，避免把整个媒体载荷读入内存
func (s *VaultService) encryptStream(src io.Reader, dst io.Writer) error {
	aead, err := s.newAEAD()
	if err != nil {
		return err
	}

	if _, err := dst.Write(vaultMagic); err != nil {
		return err
	}

	buf := make([]byte, vaultChunkSize)
	var index uint64
	for {
		n, readErr := io.ReadFull(src, buf)
		switch readErr {
		case nil:
			if err := writeChunk(aead, dst, buf[:n], index, 0); err != nil {
				return err
			}
			index++
		case io.ErrUnexpectedEOF:
			// 最后一个不满块
			return writeChunk(aead, dst, buf[:n], index, 1)
		case io.EOF:
			// 整块对齐或空载荷：补一个空末块，截断可被检出
			return writeChunk(aead, dst, nil, index, 1)
		default:
			return readErr
		}
	}
}

// writeChunk 加密并写出一个分块帧
func writeChunk(aead cipher.AEAD, dst io.Writer, plain []byte, index uint64, last byte) error {
	nonce, err := utils.RandomBytes(aead.NonceSize())
	if err != nil {
		return err
	}

	ciphertext := aead.Seal(nil, nonce, plain, chunkAAD(index, last))

	if _, err := dst.Write([]byte{last}); err != nil {
		return err
	}
	if _, err := dst.Write(nonce); err != nil {
		return err
	}
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(ciphertext)))
	if _, err := dst.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err = dst.Write(ciphertext)
	return err
}

// decryptStream 按块流式解密并校验完整性
func (s *VaultService) decryptStream(src io.Reader, dst io.Writer) error {
	aead, err := s.newAEAD()
	if err != nil {
		return err
	}

	magic := make([]byte, len(vaultMagic))
	if _, err := io.ReadFull(src, magic); err != nil {
		return errors.New("密文头缺失或被截断")
	}
	if !bytes.Equal(magic, vaultMagic) {
		return errors.New("无法识别的密文格式")
	}

	header := make([]byte, 1+aead.NonceSize()+4)
	var index uint64
	for {
		if _, err := io.ReadFull(src, header); err != nil {
			// 末块之前出现EOF说明密文被截断
			return errors.New("密文被截断")
		}

		last := header[0]
		if last > 1 {
			return errors.New("无效的分块标志")
		}
		nonce := header[1 : 1+aead.NonceSize()]
		clen := binary.BigEndian.Uint32(header[1+aead.NonceSize():])
		if clen > vaultChunkSize+uint32(aead.Overhead()) {
			return errors.New("分块长度超出上限")
		}

		ciphertext := make([]byte, clen)
		if _, err := io.ReadFull(src, ciphertext); err != nil {
			return errors.New("密文被截断")
		}

		plain, err := aead.Open(nil, nonce, ciphertext, chunkAAD(index, last))
		if err != nil {
			return fmt.Errorf("完整性校验失败: %v", err)
		}
		if _, err := dst.Write(plain); err != nil {
			return err
		}
		index++

		if last == 1 {
			// 末块之后不应再有任何数据
			var trailing [1]byte
			if n, _ := src.Read(trailing[:]); n != 0 {
				return errors.New("密文末尾存在多余数据")
			}
			return nil
		}
	}
}
