package core

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// WriterSink escreve cada linha num io.Writer com uma única chamada Write.
// O mutex protege apenas a escrita.
type WriterSink struct {
	w  io.Writer
	mu sync.Mutex
}

// NewWriterSink cria um sink sobre o writer especificado. Um writer nil
// descarta as linhas.
func NewWriterSink(w io.Writer) *WriterSink {
	if w == nil {
		w = io.Discard
	}
	return &WriterSink{w: w}
}

// NewStdoutSink cria um sink para a saída padrão do processo. No Windows o
// writer traduz as sequências ANSI para o console.
func NewStdoutSink() *WriterSink {
	return NewWriterSink(colorable.NewColorableStdout())
}

// WriteLine implementa Sink
func (s *WriterSink) WriteLine(line string) error {
	return s.WriteLines([]string{line})
}

// WriteLines implementa LinesWriter: todas as linhas saem numa única chamada
// Write, sem intercalar com outras goroutines
func (s *WriterSink) WriteLines(lines []string) error {
	size := 0
	for _, line := range lines {
		size += len(line) + 1
	}
	buf := make([]byte, 0, size)
	for _, line := range lines {
		buf = append(buf, line...)
		buf = append(buf, '\n')
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.w.Write(buf)
	if err != nil {
		return fmt.Errorf("failed to write log line: %w", err)
	}
	if n != len(buf) {
		return fmt.Errorf("failed to write log line: %w", io.ErrShortWrite)
	}
	return nil
}

// Writer retorna o writer subjacente
func (s *WriterSink) Writer() io.Writer {
	return s.w
}

// IsTerminal indica se o writer é um terminal (ou um console Cygwin)
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// StdoutIsTerminal indica se a saída padrão é um terminal
func StdoutIsTerminal() bool {
	return IsTerminal(os.Stdout)
}

// MemorySink guarda as linhas escritas em memória. Útil em testes e
// ferramentas que precisam inspecionar a saída.
type MemorySink struct {
	mu    sync.RWMutex
	lines []string
}

// NewMemorySink cria um MemorySink vazio
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// WriteLine implementa Sink
func (m *MemorySink) WriteLine(line string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, line)
	return nil
}

// WriteLines implementa LinesWriter
func (m *MemorySink) WriteLines(lines []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, lines...)
	return nil
}

// Lines retorna uma cópia das linhas escritas
func (m *MemorySink) Lines() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lines := make([]string, len(m.lines))
	copy(lines, m.lines)
	return lines
}

// Count retorna quantas linhas foram escritas
func (m *MemorySink) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.lines)
}

// Last retorna a última linha escrita, ou "" se não houver nenhuma
func (m *MemorySink) Last() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.lines) == 0 {
		return ""
	}
	return m.lines[len(m.lines)-1]
}

// Reset descarta as linhas guardadas
func (m *MemorySink) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = nil
}
