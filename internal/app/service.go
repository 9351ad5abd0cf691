package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	charmLog "github.com/charmbracelet/log"

	"github.com/hylla/kanto/internal/cloud"
	"github.com/hylla/kanto/internal/domain"
	"github.com/hylla/kanto/internal/platform"
	"github.com/hylla/kanto/internal/storage"
	"github.com/hylla/kanto/internal/vault"
)

// ErrNoEncryptionKey and related errors describe sync preconditions.
var (
	ErrNoEncryptionKey = errors.New("no encryption key available")
	ErrNotConfirmed    = errors.New("operation not confirmed")
)

// Clock returns the current time.
type Clock func() time.Time

// Service orchestrates local saves, encryption and the cloud store. The
// TUI drives it through the runner; the CLI calls it directly.
type Service struct {
	Store  *storage.Store
	Cloud  *cloud.Client
	Paths  platform.Paths
	Logger *charmLog.Logger
	Now    Clock

	key []byte
}

func NewService(store *storage.Store, cloudClient *cloud.Client, paths platform.Paths, logger *charmLog.Logger) *Service {
	if logger == nil {
		logger = charmLog.New(nil)
	}
	return &Service{
		Store:  store,
		Cloud:  cloudClient,
		Paths:  paths,
		Logger: logger,
		Now:    time.Now,
	}
}

// CloudConfigured reports whether a cloud backend was wired in. Auth and
// sync operations must not be attempted without one.
func (s *Service) CloudConfigured() bool {
	return s != nil && s.Cloud != nil
}

// InjectKey supplies an out-of-band encryption key for this run.
func (s *Service) InjectKey(encoded string) error {
	key, err := vault.DecodeKey(encoded)
	if err != nil {
		return err
	}
	s.key = key
	return nil
}

// Key returns the encryption key, loading it from disk on first use.
func (s *Service) Key() ([]byte, error) {
	if s.key != nil {
		return s.key, nil
	}
	key, err := vault.LoadKey(s.Paths.KeyPath)
	if err != nil {
		return nil, err
	}
	s.key = key
	return key, nil
}

// EnsureKey returns the key, generating and persisting a fresh one when
// none exists yet. Used right after signup.
func (s *Service) EnsureKey() ([]byte, error) {
	key, err := s.Key()
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, vault.ErrNoKeyOnDisk) {
		return nil, err
	}
	key, err = vault.GenerateKey()
	if err != nil {
		return nil, err
	}
	if err := vault.SaveKey(s.Paths.KeyPath, key); err != nil {
		return nil, err
	}
	s.Logger.Info("generated new encryption key", "path", s.Paths.KeyPath)
	s.key = key
	return key, nil
}

// SaveLocal writes a new local save file and returns its name.
func (s *Service) SaveLocal(boards domain.Boards) (string, error) {
	return s.Store.Save(boards, s.Now())
}

// AutoSave writes a save only when the state differs from the latest one.
func (s *Service) AutoSave(boards domain.Boards) (string, bool, error) {
	required, err := s.Store.SaveRequired(boards)
	if err != nil {
		return "", false, err
	}
	if !required {
		return "", false, nil
	}
	name, err := s.Store.Save(boards, s.Now())
	return name, err == nil, err
}

// SyncToCloud encrypts the board set and pushes it with the next save id.
func (s *Service) SyncToCloud(ctx context.Context, sess cloud.Session, boards domain.Boards) (int, error) {
	key, err := s.Key()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNoEncryptionKey, err)
	}
	plain, err := storage.Encode(boards)
	if err != nil {
		return 0, err
	}
	ciphertext, nonce, err := vault.Encrypt(plain, key)
	if err != nil {
		return 0, err
	}

	records, err := s.Cloud.ListSaves(ctx, sess)
	if err != nil {
		return 0, err
	}
	saveID := cloud.NextSaveID(records)
	if err := s.Cloud.PushSave(ctx, sess, ciphertext, nonce, saveID); err != nil {
		return 0, err
	}
	s.Logger.Info("synced boards to cloud", "save_id", saveID)
	return saveID, nil
}

// FetchCloudSaves lists the user's cloud saves.
func (s *Service) FetchCloudSaves(ctx context.Context, sess cloud.Session) ([]cloud.SaveRecord, error) {
	return s.Cloud.ListSaves(ctx, sess)
}

// DecryptCloudSave turns one cloud record back into a board set.
func (s *Service) DecryptCloudSave(record cloud.SaveRecord) (domain.Boards, error) {
	key, err := s.Key()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoEncryptionKey, err)
	}
	plain, err := vault.Decrypt(record.BoardData, record.Nonce, key)
	if err != nil {
		return nil, err
	}
	return storage.Decode(plain)
}

// Login authenticates and, when remember is set, persists the encrypted
// refresh token for auto-login.
func (s *Service) Login(ctx context.Context, email, password string, remember bool) (cloud.Session, error) {
	sess, err := s.Cloud.Login(ctx, email, password)
	if err != nil {
		return cloud.Session{}, err
	}
	if remember {
		s.persistSession(sess)
	}
	return sess, nil
}

// AutoLogin restores a session from the refresh token on disk. Any failure
// deletes the stale token file so the next start is anonymous.
func (s *Service) AutoLogin(ctx context.Context) (cloud.Session, error) {
	key, err := s.Key()
	if err != nil {
		return cloud.Session{}, err
	}
	token, email, err := vault.LoadRefreshToken(s.Paths.TokenPath, key)
	if err != nil {
		if !errors.Is(err, vault.ErrNoTokenOnDisk) {
			_ = vault.DeleteRefreshToken(s.Paths.TokenPath)
		}
		return cloud.Session{}, err
	}
	sess, err := s.Cloud.Refresh(ctx, token)
	if err != nil {
		_ = vault.DeleteRefreshToken(s.Paths.TokenPath)
		s.Logger.Warn("auto-login failed, removed stale refresh token", "err", err)
		return cloud.Session{}, err
	}
	if sess.Email == "" {
		sess.Email = email
	}
	s.persistSession(sess)
	return sess, nil
}

// Logout invalidates the session and removes the stored refresh token.
func (s *Service) Logout(ctx context.Context, sess cloud.Session) error {
	if err := s.Cloud.Logout(ctx, sess.AccessToken); err != nil {
		return err
	}
	return vault.DeleteRefreshToken(s.Paths.TokenPath)
}

// SignUp validates the password policy, registers the account and makes
// sure an encryption key exists for the new user.
func (s *Service) SignUp(ctx context.Context, email, password string) error {
	if err := cloud.CheckPassword(password, cloud.DefaultMinPasswordLength, cloud.DefaultMaxPasswordLength); err != nil {
		return err
	}
	if err := s.Cloud.SignUp(ctx, email, password); err != nil {
		return err
	}
	if _, err := s.EnsureKey(); err != nil {
		return err
	}
	return nil
}

// RotateKey re-authenticates, deletes every cloud save encrypted under the
// old key, and writes a fresh key. confirm must be set; the old saves are
// unrecoverable afterwards.
func (s *Service) RotateKey(ctx context.Context, email, password string, confirm bool) error {
	if !confirm {
		return ErrNotConfirmed
	}
	sess, err := s.Cloud.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := s.Cloud.DeleteAllSaves(ctx, sess); err != nil {
		return err
	}
	key, err := vault.GenerateKey()
	if err != nil {
		return err
	}
	if err := vault.SaveKey(s.Paths.KeyPath, key); err != nil {
		return err
	}
	s.key = key
	_ = vault.DeleteRefreshToken(s.Paths.TokenPath)
	s.Logger.Info("rotated encryption key", "path", s.Paths.KeyPath)
	return nil
}

func (s *Service) persistSession(sess cloud.Session) {
	key, err := s.Key()
	if err != nil {
		s.Logger.Warn("cannot persist refresh token without a key", "err", err)
		return
	}
	if err := vault.SaveRefreshToken(s.Paths.TokenPath, sess.RefreshToken, sess.Email, key); err != nil {
		s.Logger.Warn("persist refresh token", "err", err)
	}
}
