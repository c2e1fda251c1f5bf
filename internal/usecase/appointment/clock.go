package appointment

import "time"

// Clock devolve o instante atual já no fuso da barbearia.
type Clock func() time.Time
