// Пакет реализует однопоточную очередь отложенных задач редактора.
// Вся мутация дерева происходит синхронно в обработчиках событий; очередь
// нужна для двух намеренных отсрочек: нулевой тик после изменения контента
// (пересчёт состояния панели, починка после formatBlock) и тик ~100мс после
// расфокусировки, чтобы дать фокусу полностью уйти.
//
// Основные возможности:
//   - Serial: продакшен-цикл, одна горутина выполняет задачи по порядку.
//   - Manual: тестовый цикл с ручной прокачкой и виртуальным временем.
package eventloop

import (
	"sync"
	"time"
)

// Loop - очередь задач редактора. Post ставит задачу на ближайший тик,
// PostDelayed - через заданный интервал.
type Loop interface {
	Post(fn func())
	PostDelayed(d time.Duration, fn func())
}

// Serial выполняет задачи последовательно в выделенной горутине.
type Serial struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once
}

func NewSerial() *Serial {
	s := &Serial{
		tasks: make(chan func(), 64),
		done:  make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *Serial) run() {
	for {
		select {
		case fn := <-s.tasks:
			fn()
		case <-s.done:
			return
		}
	}
}

func (s *Serial) Post(fn func()) {
	select {
	case s.tasks <- fn:
	case <-s.done:
	}
}

func (s *Serial) PostDelayed(d time.Duration, fn func()) {
	time.AfterFunc(d, func() {
		s.Post(fn)
	})
}

// Close останавливает цикл. Уже поставленные задачи могут не выполниться.
func (s *Serial) Close() {
	s.once.Do(func() {
		close(s.done)
	})
}

type delayedTask struct {
	at time.Duration
	fn func()
}

// Manual - детерминированный цикл для тестов: задачи накапливаются и
// выполняются вызовами Pump и Advance.
type Manual struct {
	mu      sync.Mutex
	now     time.Duration
	queue   []func()
	delayed []delayedTask
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) Post(fn func()) {
	m.mu.Lock()
	m.queue = append(m.queue, fn)
	m.mu.Unlock()
}

func (m *Manual) PostDelayed(d time.Duration, fn func()) {
	m.mu.Lock()
	m.delayed = append(m.delayed, delayedTask{at: m.now + d, fn: fn})
	m.mu.Unlock()
}

// Pump выполняет накопленные немедленные задачи, включая задачи,
// поставленные в ходе выполнения.
func (m *Manual) Pump() {
	for {
		m.mu.Lock()
		if len(m.queue) == 0 {
			m.mu.Unlock()
			return
		}
		fn := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()
		fn()
	}
}

// Advance продвигает виртуальное время, переводя созревшие отложенные
// задачи в очередь, и прокачивает её.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now += d
	var rest []delayedTask
	for _, t := range m.delayed {
		if t.at <= m.now {
			m.queue = append(m.queue, t.fn)
		} else {
			rest = append(rest, t)
		}
	}
	m.delayed = rest
	m.mu.Unlock()
	m.Pump()
}
