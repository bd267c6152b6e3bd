package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Leganyst/rental-console/internal/domain"
	"github.com/Leganyst/rental-console/internal/mapper"
	"github.com/Leganyst/rental-console/internal/model"
	"github.com/Leganyst/rental-console/internal/repository"
)

var ErrDuplicateItem = errors.New("inventory item already exists")

// AddItem заводит новую позицию склада. id = domain.Slug(name).
func (c *Console) AddItem(ctx context.Context, name string, quantity int, cost, rentalPrice decimal.Decimal) (domain.InventoryItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.InventoryItem{}, domain.NewValidationError("name", "item name is required", nil)
	}
	if err := validateStock(quantity, cost, rentalPrice); err != nil {
		return domain.InventoryItem{}, err
	}

	id := domain.Slug(name)
	if id == "" {
		return domain.InventoryItem{}, domain.NewValidationError("name", "item name has no usable characters", nil)
	}
	if _, exists := c.findItem(id); exists {
		return domain.InventoryItem{}, domain.NewValidationError("name", fmt.Sprintf("an item named %q already exists", name), ErrDuplicateItem)
	}

	item := domain.InventoryItem{ID: id, Name: name, Quantity: quantity, Cost: cost, RentalPrice: rentalPrice}
	saved, err := saveOne(ctx, c, repository.TableInventory, mapper.KindInventoryItem, item, mapper.DecodeItem)
	if err != nil {
		return domain.InventoryItem{}, err
	}

	c.mu.Lock()
	c.inventory = replaceOrAppend(c.inventory, saved, func(x domain.InventoryItem) string { return x.ID })
	c.mu.Unlock()

	c.trail(ctx, model.EventTypeItemSaved, repository.TableInventory, saved.ID, fmt.Sprintf("quantity=%d", saved.Quantity))
	return saved, nil
}

// UpdateItem меняет количество и цены позиции; имя и id не меняются.
func (c *Console) UpdateItem(ctx context.Context, id string, quantity int, cost, rentalPrice decimal.Decimal) (domain.InventoryItem, error) {
	current, ok := c.findItem(id)
	if !ok {
		return domain.InventoryItem{}, fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	if err := validateStock(quantity, cost, rentalPrice); err != nil {
		return domain.InventoryItem{}, err
	}

	item := domain.InventoryItem{ID: current.ID, Name: current.Name, Quantity: quantity, Cost: cost, RentalPrice: rentalPrice}
	saved, err := saveOne(ctx, c, repository.TableInventory, mapper.KindInventoryItem, item, mapper.DecodeItem)
	if err != nil {
		return domain.InventoryItem{}, err
	}

	c.mu.Lock()
	c.inventory = replaceOrAppend(c.inventory, saved, func(x domain.InventoryItem) string { return x.ID })
	c.mu.Unlock()

	c.trail(ctx, model.EventTypeItemSaved, repository.TableInventory, saved.ID, fmt.Sprintf("quantity=%d", saved.Quantity))
	return saved, nil
}

// DeleteItem удаляет позицию. Брони, где она упоминается, не трогаются.
func (c *Console) DeleteItem(ctx context.Context, id string) error {
	if _, ok := c.findItem(id); !ok {
		return fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	if err := c.deleteOne(ctx, repository.TableInventory, id); err != nil {
		return err
	}

	c.mu.Lock()
	c.inventory = removeByID(c.inventory, id, func(x domain.InventoryItem) string { return x.ID })
	c.mu.Unlock()

	c.trail(ctx, model.EventTypeItemDeleted, repository.TableInventory, id, "")
	return nil
}

// Inventory возвращает копию склада.
func (c *Console) Inventory() []domain.InventoryItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.InventoryItem, len(c.inventory))
	copy(out, c.inventory)
	return out
}

// TotalUnits считает сумму количеств по всем позициям.
func (c *Console) TotalUnits() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := 0
	for _, it := range c.inventory {
		total += it.Quantity
	}
	return total
}

func (c *Console) findItem(id string) (domain.InventoryItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.inventory {
		if it.ID == id {
			return it, true
		}
	}
	return domain.InventoryItem{}, false
}

func validateStock(quantity int, cost, rentalPrice decimal.Decimal) error {
	if quantity < 0 {
		return domain.NewValidationError("quantity", "quantity must not be negative", nil)
	}
	if cost.IsNegative() {
		return domain.NewValidationError("cost", "cost must not be negative", nil)
	}
	if rentalPrice.IsNegative() {
		return domain.NewValidationError("rentalPrice", "rental price must not be negative", nil)
	}
	return nil
}
