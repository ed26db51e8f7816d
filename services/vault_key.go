package services

import (
	"encoding/hex"
	"fmt"
	"os"

	"ridesafe-http-service/config"
	"ridesafe-http-service/utils"
)

// 保险库主密钥长度（AES-256）
const vaultKeySize = 32

// InterfaceVaultKeyService 定义保险库主密钥管理接口
// 密钥在进程启动时加载一次并注入所有保险库操作，
// 进程重启后从持久化文件恢复同一密钥，历史密文始终可解
type InterfaceVaultKeyService interface {
	Key() []byte
}

// VaultKeyService 管理保险库主密钥
type VaultKeyService struct {
	key []byte
}

// NewVaultKeyService 加载或初始化主密钥
// 优先使用 VAULT_MASTER_KEY 环境变量（十六进制），
// 否则读取密钥文件；文件不存在时生成新密钥并以0600权限落盘
func NewVaultKeyService(cfg *config.Config) (InterfaceVaultKeyService, error) {
	if cfg.VaultMasterKey != "" {
		key, err := hex.DecodeString(cfg.VaultMasterKey)
		if err != nil {
			return nil, fmt.Errorf("解析VAULT_MASTER_KEY失败: %w", err)
		}
		if len(key) != vaultKeySize {
			return nil, fmt.Errorf("主密钥长度应为%d字节，实际%d字节", vaultKeySize, len(key))
		}
		return &VaultKeyService{key: key}, nil
	}

	key, err := os.ReadFile(cfg.VaultKeyFile)
	if err == nil {
		if len(key) != vaultKeySize {
			return nil, fmt.Errorf("密钥文件 %s 损坏：长度应为%d字节", cfg.VaultKeyFile, vaultKeySize)
		}
		return &VaultKeyService{key: key}, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("读取密钥文件失败: %w", err)
	}

	// 首次启动：生成并持久化新密钥
	key, err = utils.RandomBytes(vaultKeySize)
	if err != nil {
		return nil, fmt.Errorf("生成主密钥失败: %w", err)
	}
	if err := os.WriteFile(cfg.VaultKeyFile, key, 0600); err != nil {
		return nil, fmt.Errorf("持久化主密钥失败: %w", err)
	}
	config.Info("已生成新的保险库主密钥并写入 %s", cfg.VaultKeyFile)

	return &VaultKeyService{key: key}, nil
}

// Key 返回主密钥
func (s *VaultKeyService) Key() []byte {
	return s.key
}
