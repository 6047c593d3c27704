package observable_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jhoicas/storefront-client/pkg/observable"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSubject_ReplayAlSuscriptorTardio(t *testing.T) {
	s := observable.New(0)
	s.Publish(1)
	s.Publish(2)

	var got []int
	unsub := s.Subscribe(func(v int) { got = append(got, v) })
	defer unsub()

	s.Publish(3)

	assert.Equal(t, []int{2, 3}, got, "primero el valor actual, luego los nuevos")
}

func TestSubject_ValorInicialSinPublicaciones(t *testing.T) {
	s := observable.New("vacío")

	var got []string
	s.Subscribe(func(v string) { got = append(got, v) })

	assert.Equal(t, []string{"vacío"}, got)
	assert.Equal(t, "vacío", s.Value())
}

func TestSubject_Desuscribir(t *testing.T) {
	s := observable.New(0)
	calls := 0
	unsub := s.Subscribe(func(int) { calls++ })
	require.Equal(t, 1, calls)

	unsub()
	unsub() // idempotente
	s.Publish(5)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, s.Len())
}

func TestSubject_DesuscribirDesdeElCallback(t *testing.T) {
	s := observable.New(0)
	var got []int
	var unsub func()
	unsub = s.Subscribe(func(v int) {
		got = append(got, v)
		if v == 1 && unsub != nil {
			unsub()
		}
	})

	s.Publish(1)
	s.Publish(2)

	assert.Equal(t, []int{0, 1}, got)
}

func TestSubject_ValueDesdeElCallback(t *testing.T) {
	s := observable.New(0)
	var seen []int
	s.Subscribe(func(int) { seen = append(seen, s.Value()) })

	s.Publish(7)

	assert.Equal(t, []int{0, 7}, seen, "Value ya refleja el valor entregado")
}

func TestSubject_OrdenTotalConPublicadoresConcurrentes(t *testing.T) {
	s := observable.New(0)

	var mu sync.Mutex
	var a, b []int
	s.Subscribe(func(v int) { mu.Lock(); a = append(a, v); mu.Unlock() })
	s.Subscribe(func(v int) { mu.Lock(); b = append(b, v); mu.Unlock() })

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			s.Publish(v)
		}(i)
	}
	wg.Wait()

	require.Len(t, a, 51)
	assert.Equal(t, a, b, "todos los suscriptores ven la misma secuencia")
	assert.Equal(t, a[len(a)-1], s.Value(), "el último entregado es el valor actual")
}

func TestSubject_Close(t *testing.T) {
	s := observable.New(0)
	calls := 0
	s.Subscribe(func(int) { calls++ })

	s.Close()
	s.Publish(1)
	s.Subscribe(func(int) { calls++ })

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, s.Value())
	assert.Equal(t, 0, s.Len())
}
