package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"necrolens-server/internal/domain"
	"os"

	"github.com/klauspost/compress/zstd"
)

func (s *JournalService) Load(path string) (*domain.JournalSession, error) {
	return Load(path)
}

// Load читает журнал целиком
func Load(path string) (*domain.JournalSession, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer zr.Close()

	return readBinary(zr)
}

func readBinary(r io.Reader) (*domain.JournalSession, error) {
	// 1. Читаем заголовок целиком
	var header JournalFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if string(header.Magic[:]) != MagicHeader {
		return nil, ErrBadMagic
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("unsupported version: %d (expected %d)", header.Version, Version1)
	}

	runID := make([]byte, header.RunIDLen)
	if _, err := io.ReadFull(r, runID); err != nil {
		return nil, fmt.Errorf("failed to read run id: %w", err)
	}

	session := &domain.JournalSession{
		RunID:     string(runID),
		StartedAt: header.StartedAt,
		Entries:   make([]domain.JournalEntry, 0, 64),
	}

	// 2. Читаем записи до конца потока
	for {
		var eh EntryHeader
		if err := binary.Read(r, binary.LittleEndian, &eh); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			// Обрезанный хвост (процесс упал между Flush) - отдаём то, что успели прочитать
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return session, nil
			}
			return nil, err
		}

		entry := domain.JournalEntry{
			At:    eh.At,
			Event: domain.EventType(eh.Event),
		}

		if eh.PayloadLen > 0 {
			entry.Payload = make([]byte, eh.PayloadLen)
			if _, err := io.ReadFull(r, entry.Payload); err != nil {
				if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
					return session, nil
				}
				return nil, err
			}
		} else {
			entry.Payload = json.RawMessage{}
		}

		session.Entries = append(session.Entries, entry)
	}

	return session, nil
}
