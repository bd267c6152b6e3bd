package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Leganyst/rental-console/internal/calendar"
	"github.com/Leganyst/rental-console/internal/domain"
	"github.com/Leganyst/rental-console/internal/mapper"
	"github.com/Leganyst/rental-console/internal/model"
	"github.com/Leganyst/rental-console/internal/repository"
)

// MissingClientName показывается вместо имени, если клиента брони уже нет.
const MissingClientName = "Cliente não encontrado"

// SaveClient создаёт клиента (editingID == "") или перезаписывает существующего.
func (c *Console) SaveClient(ctx context.Context, input domain.Client, editingID string) (domain.Client, error) {
	client := normalizeClient(input)
	if client.Name == "" {
		return domain.Client{}, domain.NewValidationError("name", "client name is required", nil)
	}

	if editingID != "" {
		if _, ok := c.findClient(editingID); !ok {
			return domain.Client{}, fmt.Errorf("client %s: %w", editingID, domain.ErrNotFound)
		}
		client.ID = editingID
	} else {
		client.ID = c.newID()
	}

	saved, err := saveOne(ctx, c, repository.TableClients, mapper.KindClient, client, mapper.DecodeClient)
	if err != nil {
		return domain.Client{}, err
	}

	c.mu.Lock()
	c.clients = replaceOrAppend(c.clients, saved, func(x domain.Client) string { return x.ID })
	c.mu.Unlock()

	c.trail(ctx, model.EventTypeClientSaved, repository.TableClients, saved.ID, saved.Name)
	return saved, nil
}

// DeleteClient удаляет клиента. Брони клиента остаются, в них имя показывается как MissingClientName.
func (c *Console) DeleteClient(ctx context.Context, id string) error {
	if _, ok := c.findClient(id); !ok {
		return fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
	}
	if err := c.deleteOne(ctx, repository.TableClients, id); err != nil {
		return err
	}

	c.mu.Lock()
	c.clients = removeByID(c.clients, id, func(x domain.Client) string { return x.ID })
	c.mu.Unlock()

	c.trail(ctx, model.EventTypeClientDeleted, repository.TableClients, id, "")
	return nil
}

// Clients возвращает клиентов, подходящих под запрос (имя или CPF), по алфавиту.
func (c *Console) Clients(query string) []domain.Client {
	c.mu.RLock()
	out := make([]domain.Client, 0, len(c.clients))
	for _, cl := range c.clients {
		if calendar.MatchClient(cl, query) {
			out = append(out, cl)
		}
	}
	c.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

func (c *Console) Client(id string) (domain.Client, error) {
	cl, ok := c.findClient(id)
	if !ok {
		return domain.Client{}, fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
	}
	return cl, nil
}

// ClientName возвращает имя клиента или MissingClientName.
func (c *Console) ClientName(id string) string {
	if cl, ok := c.findClient(id); ok {
		return cl.Name
	}
	return MissingClientName
}

func (c *Console) findClient(id string) (domain.Client, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, cl := range c.clients {
		if cl.ID == id {
			return cl, true
		}
	}
	return domain.Client{}, false
}

func normalizeClient(in domain.Client) domain.Client {
	out := domain.Client{
		Name:    strings.TrimSpace(in.Name),
		Phone:   strings.TrimSpace(in.Phone),
		Email:   strings.TrimSpace(in.Email),
		CPF:     strings.TrimSpace(in.CPF),
		Address: trimAddress(in.Address),
	}
	if in.PartyAddress != nil {
		party := trimAddress(*in.PartyAddress)
		out.PartyAddress = &party
	}
	return out
}

func trimAddress(a domain.Address) domain.Address {
	return domain.Address{
		Street:       strings.TrimSpace(a.Street),
		Number:       strings.TrimSpace(a.Number),
		Complement:   strings.TrimSpace(a.Complement),
		Neighborhood: strings.TrimSpace(a.Neighborhood),
		City:         strings.TrimSpace(a.City),
		State:        strings.TrimSpace(a.State),
		Zip:          strings.TrimSpace(a.Zip),
	}
}

func replaceOrAppend[T any](list []T, v T, id func(T) string) []T {
	for i := range list {
		if id(list[i]) == id(v) {
			out := make([]T, len(list))
			copy(out, list)
			out[i] = v
			return out
		}
	}
	out := make([]T, len(list), len(list)+1)
	copy(out, list)
	return append(out, v)
}

func removeByID[T any](list []T, target string, id func(T) string) []T {
	out := make([]T, 0, len(list))
	for _, v := range list {
		if id(v) != target {
			out = append(out, v)
		}
	}
	return out
}
