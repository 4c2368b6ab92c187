package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"cafe/internal/domain"
	"cafe/internal/dto"
	apperrors "cafe/internal/errors"
	menuservice "cafe/internal/menu/service"
)

// Accounts

func (a *App) createUser(ctx context.Context) error {
	answers, err := a.prompts("\tEnter user login: ", "\tEnter user password: ", "\tEnter user phone: ")
	if err != nil {
		return err
	}

	req := dto.CreateUserRequest{Login: answers[0], Password: answers[1], Phone: answers[2]}
	err = a.call(ctx, func(ctx context.Context) error {
		return a.accounts.CreateUser(ctx, req)
	})
	if err != nil {
		a.report("create user", err)
		return nil
	}

	a.console.Display("User successfully created!")
	return nil
}

// login reports whether the session is now authenticated.
func (a *App) login(ctx context.Context) (bool, error) {
	answers, err := a.prompts("\tEnter user login: ", "\tEnter user password: ")
	if err != nil {
		return false, err
	}

	err = a.call(ctx, func(ctx context.Context) error {
		return a.accounts.Login(ctx, a.sess, answers[0], answers[1])
	})
	if err != nil {
		a.report("login", err)
		return false, nil
	}

	a.console.Display("Welcome, " + a.sess.Login() + "!")
	return true, nil
}

func (a *App) updateProfile(ctx context.Context) error {
	a.console.Display("Updating user profile (leave the password blank to keep it)")
	answers, err := a.prompts(
		"\tEnter login of the user you want to update (managers only, blank for yourself): ",
		"\tEnter the user's new phone number: ",
		"\tEnter the user's new password: ",
		"\tEnter the user's new favItems: ",
		"\tEnter the user's new type (managers only): ",
	)
	if err != nil {
		return err
	}

	req := dto.UpdateProfileRequest{
		TargetLogin: answers[0],
		Phone:       answers[1],
		Password:    answers[2],
		FavItems:    answers[3],
		Role:        answers[4],
	}

	var updated *domain.User
	err = a.call(ctx, func(ctx context.Context) error {
		var err error
		updated, err = a.profiles.UpdateProfile(ctx, a.sess, req)
		return err
	})
	if err != nil {
		a.report("update profile", err)
		return nil
	}

	a.console.Display(fmt.Sprintf("User with name %s updated", updated.Login))
	return nil
}

// Menu catalog

func (a *App) searchByName(ctx context.Context) error {
	a.console.Display("Searching menu by Name")
	name, err := a.console.Prompt("\tEnter menu item name: ")
	if err != nil {
		return err
	}

	var items []domain.MenuItem
	err = a.call(ctx, func(ctx context.Context) error {
		var err error
		items, err = a.catalog.FindByName(ctx, name)
		return err
	})
	if err != nil {
		a.report("search menu", err)
		return nil
	}

	a.showItems(items)
	return nil
}

func (a *App) searchByType(ctx context.Context) error {
	a.console.Display("Searching menu by Type")
	itemType, err := a.console.Prompt("\tEnter menu item type: ")
	if err != nil {
		return err
	}

	var items []domain.MenuItem
	err = a.call(ctx, func(ctx context.Context) error {
		var err error
		items, err = a.catalog.FindByType(ctx, itemType)
		return err
	})
	if err != nil {
		a.report("search menu", err)
		return nil
	}

	a.showItems(items)
	return nil
}

func (a *App) browseMenu(ctx context.Context) error {
	var items []domain.MenuItem
	err := a.call(ctx, func(ctx context.Context) error {
		var err error
		items, err = a.catalog.ListAll(ctx)
		return err
	})
	if err != nil {
		a.report("browse menu", err)
		return nil
	}

	a.showItems(items)
	return nil
}

func (a *App) showItems(items []domain.MenuItem) {
	if len(items) == 0 {
		a.console.Display("No matching items.")
		return
	}
	for _, item := range items {
		a.console.Display(formatMenuItem(item)...)
	}
}

func (a *App) addItem(ctx context.Context) error {
	answers, err := a.prompts(
		"\tEnter item name: ",
		"\tEnter item type: ",
		"\tEnter item price: ",
		"\tEnter item description: ",
		"\tEnter item image url: ",
	)
	if err != nil {
		return err
	}

	price, err := menuservice.ParsePrice(answers[2])
	if err != nil {
		a.report("add item", err)
		return nil
	}

	item := domain.MenuItem{
		Name:        answers[0],
		Type:        answers[1],
		Price:       price,
		Description: answers[3],
		ImageURL:    answers[4],
	}
	err = a.call(ctx, func(ctx context.Context) error {
		return a.catalog.Add(ctx, a.sess, item)
	})
	if err != nil {
		a.report("add item", err)
		return nil
	}

	a.console.Display(fmt.Sprintf("Item with name %s added", strings.TrimSpace(item.Name)))
	return nil
}

func (a *App) updateItem(ctx context.Context) error {
	answers, err := a.prompts(
		"\tEnter the menu item's current name: ",
		"\tEnter new item price: ",
		"\tEnter new item description: ",
		"\tEnter new image url: ",
	)
	if err != nil {
		return err
	}

	price, err := menuservice.ParsePrice(answers[1])
	if err != nil {
		a.report("update item", err)
		return nil
	}

	err = a.call(ctx, func(ctx context.Context) error {
		return a.catalog.Update(ctx, a.sess, answers[0], price, answers[2], answers[3])
	})
	if err != nil {
		a.report("update item", err)
		return nil
	}

	a.console.Display(fmt.Sprintf("Item with name %s updated", answers[0]))
	return nil
}

func (a *App) deleteItem(ctx context.Context) error {
	name, err := a.console.Prompt("\tEnter menu item name: ")
	if err != nil {
		return err
	}

	err = a.call(ctx, func(ctx context.Context) error {
		return a.catalog.Delete(ctx, a.sess, name)
	})
	if err != nil {
		a.report("delete item", err)
		return nil
	}

	a.console.Display(fmt.Sprintf("Item with name %s deleted", name))
	return nil
}

// Orders

func (a *App) placeOrder(ctx context.Context) error {
	a.console.Display("Placing an order (leave the item name blank to finish)")

	var req dto.PlaceOrderRequest
	for {
		name, err := a.console.Prompt("\tEnter item name: ")
		if err != nil {
			return err
		}
		if name == "" {
			break
		}
		comment, err := a.console.Prompt("\tEnter a comment for " + name + ": ")
		if err != nil {
			return err
		}
		req.Items = append(req.Items, dto.LineItemRequest{ItemName: name, Comment: comment})
	}

	// Each attempt is bounded by the transaction timeout.
	result, err := a.placer.PlaceOrder(ctx, a.sess, req)
	if err != nil {
		a.report("place order", err)
		return nil
	}

	a.console.Display(
		fmt.Sprintf("Created new order with orderid: %d", result.Order.ID),
		fmt.Sprintf("%d item(s), total %s", len(result.Lines), formatPrice(result.Order.Total)),
	)
	return nil
}

func (a *App) updateOrder(ctx context.Context) error {
	orderID, ok, err := a.promptOrderID()
	if err != nil || !ok {
		return err
	}

	answers, err := a.prompts(
		"\tEnter the item to update (blank for every item): ",
		"\tEnter the new status: ",
		"\tEnter comments: ",
	)
	if err != nil {
		return err
	}

	req := dto.UpdateStatusRequest{OrderID: orderID, ItemName: answers[0], Status: answers[1], Comments: answers[2]}

	var updated int64
	err = a.call(ctx, func(ctx context.Context) error {
		var err error
		updated, err = a.orders.UpdateStatus(ctx, a.sess, req)
		return err
	})
	if err != nil {
		a.report("update order", err)
		return nil
	}

	a.console.Display(fmt.Sprintf("Updated %d item(s) of order %d", updated, orderID))
	return nil
}

func (a *App) viewOrder(ctx context.Context) error {
	orderID, ok, err := a.promptOrderID()
	if err != nil || !ok {
		return err
	}

	var details *dto.OrderDetails
	err = a.call(ctx, func(ctx context.Context) error {
		var err error
		details, err = a.orders.GetOrder(ctx, a.sess, orderID)
		return err
	})
	if err != nil {
		a.report("view order", err)
		return nil
	}

	a.console.Display(formatOrder(details.Order))
	for _, line := range details.Lines {
		a.console.Display(formatLine(line))
	}
	return nil
}

func (a *App) recentOrders(ctx context.Context) error {
	var orders []domain.Order
	err := a.call(ctx, func(ctx context.Context) error {
		var err error
		orders, err = a.orders.ListRecentOrders(ctx, a.sess)
		return err
	})
	if err != nil {
		a.report("list orders", err)
		return nil
	}

	if len(orders) == 0 {
		a.console.Display("You have no orders yet.")
		return nil
	}
	for _, o := range orders {
		a.console.Display(formatOrder(o))
	}
	return nil
}

func (a *App) markPaid(ctx context.Context) error {
	orderID, ok, err := a.promptOrderID()
	if err != nil || !ok {
		return err
	}

	err = a.call(ctx, func(ctx context.Context) error {
		return a.orders.MarkPaid(ctx, a.sess, orderID)
	})
	if err != nil {
		a.report("mark paid", err)
		return nil
	}

	a.console.Display(fmt.Sprintf("Order %d marked as paid", orderID))
	return nil
}

// promptOrderID reads an order id. ok is false when the input was rejected
// and already reported.
func (a *App) promptOrderID() (uint, bool, error) {
	raw, err := a.console.Prompt("\tEnter the order id: ")
	if err != nil {
		return 0, false, err
	}

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		a.report("read order id", apperrors.NewValidationError("order id must be a positive number",
			apperrors.ValidationDetail{Field: "orderId", Message: fmt.Sprintf("%q is not a valid order id", raw)}))
		return 0, false, nil
	}
	return uint(id), true, nil
}
