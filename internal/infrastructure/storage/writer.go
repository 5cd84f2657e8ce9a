package storage

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"necrolens-server/internal/domain"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
)

const (
	MagicHeader string = `NLJR` // 4 байта
	Version1    uint32 = 1

	maxRunIDLen = 255
)

// ErrBadMagic - файл не является журналом сессии
var ErrBadMagic = errors.New("invalid journal magic")

// JournalFileHeader это точное представление заголовка файла в памяти.
// binary.Write умеет писать это целиком, так как тут нет слайсов и строк, только массивы и числа.
type JournalFileHeader struct {
	Magic     [4]byte // 4 байта
	Version   uint32  // 4 байта
	StartedAt int64   // 8 байт
	RunIDLen  uint8   // 1 байт
}

// EntryHeader - заголовок каждой записи журнала.
type EntryHeader struct {
	At         int64  // 8
	Event      uint8  // 1
	PayloadLen uint32 // 4
}

type JournalService struct {
	SaveDir string
}

func NewJournalService(dir string) *JournalService {
	// Создаем папку если нет
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		_ = os.MkdirAll(dir, 0755)
	}
	return &JournalService{SaveDir: dir}
}

// JournalWriter дописывает события в сжатый zstd файл.
// Пишется по мере поступления событий, поэтому количество записей в заголовке не хранится:
// читатель идёт до конца потока.
type JournalWriter struct {
	mu    sync.Mutex
	path  string
	f     *os.File
	zw    *zstd.Encoder
	bw    *bufio.Writer
	count int
}

// Create открывает новый журнал для запуска с идентификатором runID
func (s *JournalService) Create(runID string, startedAt int64) (*JournalWriter, error) {
	if len(runID) > maxRunIDLen {
		return nil, fmt.Errorf("run id too long: %d", len(runID))
	}

	filename := fmt.Sprintf("journal_%d_%s.nlj", startedAt, runID)
	path := filepath.Join(s.SaveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("zstd writer: %w", err)
	}

	w := &JournalWriter{path: path, f: f, zw: zw, bw: bufio.NewWriter(zw)}
	if err := writeHeader(w.bw, runID, startedAt); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

func writeHeader(w io.Writer, runID string, startedAt int64) error {
	header := JournalFileHeader{
		Version:   Version1,
		StartedAt: startedAt,
		RunIDLen:  uint8(len(runID)),
	}
	copy(header.Magic[:], MagicHeader) // Копируем строку в массив [4]byte

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := io.WriteString(w, runID); err != nil {
		return fmt.Errorf("failed to write run id: %w", err)
	}
	return nil
}

// Append пишет одну запись
func (w *JournalWriter) Append(entry domain.JournalEntry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := writeEntry(w.bw, entry); err != nil {
		return err
	}
	w.count++
	return nil
}

func writeEntry(w io.Writer, entry domain.JournalEntry) error {
	eh := EntryHeader{
		At:         entry.At,
		Event:      uint8(entry.Event),
		PayloadLen: uint32(len(entry.Payload)),
	}

	// Пишем заголовок записи одной командой
	if err := binary.Write(w, binary.LittleEndian, &eh); err != nil {
		return err
	}
	if len(entry.Payload) > 0 {
		if _, err := w.Write(entry.Payload); err != nil {
			return err
		}
	}
	return nil
}

// Flush сбрасывает буфер и закрывает текущий zstd блок, чтобы данные пережили падение процесса
func (w *JournalWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.bw.Flush(); err != nil {
		return err
	}
	return w.zw.Flush()
}

// Close дописывает всё и закрывает файл
func (w *JournalWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	errs := []error{w.bw.Flush(), w.zw.Close(), w.f.Close()}
	return errors.Join(errs...)
}

func (w *JournalWriter) Path() string {
	return w.path
}

func (w *JournalWriter) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}
