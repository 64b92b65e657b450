package console

import "github.com/example/myusers-admin/internal/models"

// UserList é o cache local dos registros, na ordem em que o store devolveu
// (created_at decrescente). Só é alterado pelo Form após resposta do store.
type UserList struct {
	items   []models.User
	loading bool
}

// NewUserList cria a lista vazia.
func NewUserList() *UserList {
	return &UserList{items: []models.User{}}
}

// Replace troca o conteúdo inteiro.
func (l *UserList) Replace(users []models.User) {
	l.items = append(make([]models.User, 0, len(users)), users...)
}

// Prepend insere registros novos no topo. Registros recém-criados são os mais novos,
// então a ordem decrescente se mantém sem reordenar.
func (l *UserList) Prepend(users ...models.User) {
	out := make([]models.User, 0, len(users)+len(l.items))
	out = append(out, users...)
	l.items = append(out, l.items...)
}

// Patch mescla o rascunho no registro com o id informado. Devolve false se não achou.
func (l *UserList) Patch(id int64, d models.Draft) bool {
	for i := range l.items {
		if l.items[i].ID == id {
			l.items[i] = l.items[i].Apply(d)
			return true
		}
	}
	return false
}

// Remove tira o registro com o id informado.
func (l *UserList) Remove(id int64) bool {
	for i := range l.items {
		if l.items[i].ID == id {
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

// Get busca um registro pelo id.
func (l *UserList) Get(id int64) (models.User, bool) {
	for _, u := range l.items {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

// Items devolve uma cópia dos registros.
func (l *UserList) Items() []models.User {
	return append([]models.User(nil), l.items...)
}

func (l *UserList) Len() int { return len(l.items) }

func (l *UserList) Loading() bool { return l.loading }

func (l *UserList) setLoading(v bool) { l.loading = v }
