package ts

// slot — ячейка табу-памяти, элемент или пустое место.
// Пустая ячейка не совпадает ни с одним элементом.
type slot struct {
	elem int
	set  bool
}

var none = slot{}

func some(el int) slot { return slot{elem: el, set: true} }

// tabuList — табу-память фиксированной длины.
// Реализована как кольцевой буфер (FIFO)
// с map для быстрой проверки табуированности.
type tabuList struct {
	buf  []slot
	head int         // позиция самой старой записи
	size int         // всегда равен len(buf) между ходами
	m    map[int]int // элемент → количество вхождений в буфере
}

// newTabuList создаёт табу-память заданной ёмкости, заполненную пустыми ячейками.
func newTabuList(capacity int) *tabuList {
	if capacity <= 0 {
		panic("ёмкость табу-списка должна быть > 0")
	}
	t := &tabuList{
		buf: make([]slot, capacity),
		m:   make(map[int]int, capacity),
	}
	for i := 0; i < capacity; i++ {
		t.Push(none)
	}
	return t
}

func (t *tabuList) Len() int { return t.size }

func (t *tabuList) Cap() int { return len(t.buf) }

// Contains проверяет, является ли элемент табуированным.
func (t *tabuList) Contains(el int) bool {
	return t.m[el] > 0
}

// EvictOldest удаляет и возвращает самую старую запись.
func (t *tabuList) EvictOldest() slot {
	if t.size == 0 {
		panic("табу-список пуст")
	}
	s := t.buf[t.head]
	t.buf[t.head] = none
	t.head = (t.head + 1) % len(t.buf)
	t.size--
	if s.set {
		if t.m[s.elem]--; t.m[s.elem] == 0 {
			delete(t.m, s.elem)
		}
	}
	return s
}

// Push добавляет запись в конец очереди.
func (t *tabuList) Push(s slot) {
	if t.size == len(t.buf) {
		panic("табу-список переполнен")
	}
	t.buf[(t.head+t.size)%len(t.buf)] = s
	t.size++
	if s.set {
		t.m[s.elem]++
	}
}

// Slots возвращает записи от самой старой к самой новой.
func (t *tabuList) Slots() []slot {
	out := make([]slot, t.size)
	for i := range out {
		out[i] = t.buf[(t.head+i)%len(t.buf)]
	}
	return out
}
