package pipeline

import "sync"

// supplierLocks именованные блокировки по поставщику.
// Межбатчевая проверка дубликатов и коммит выполняются под блокировкой
// поставщика: два одновременных батча одного поставщика не могут оба
// "выиграть" гонку дубликатов и задвоить товар.
type supplierLocks struct {
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func newSupplierLocks() *supplierLocks {
	return &supplierLocks{locks: make(map[int]*sync.Mutex)}
}

// Lock блокирует поставщика, возвращает функцию разблокировки
func (sl *supplierLocks) Lock(supplierID int) func() {
	sl.mu.Lock()
	lock, ok := sl.locks[supplierID]
	if !ok {
		lock = &sync.Mutex{}
		sl.locks[supplierID] = lock
	}
	sl.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
