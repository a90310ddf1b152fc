// Package sound отвечает за звуковой сигнал уведомлений.
package sound

import "io"

// Bell воспроизводит сигнал терминальным символом BEL.
type Bell struct {
	out io.Writer
}

// NewBell создаёт проигрыватель, пишущий сигнал в указанный поток.
func NewBell(out io.Writer) *Bell {
	return &Bell{out: out}
}

// Play выводит звуковой сигнал. Ошибки вывода молча игнорируются.
func (b *Bell) Play() {
	if b == nil || b.out == nil {
		return
	}
	_, _ = b.out.Write([]byte("\a"))
}
