package gqlclient

// GraphQL documents for every operation the service exposes. Field sets
// mirror the service schema; changing them changes the wire contract.

const loginMutation = `
mutation Login($email: String!, $password: String!) {
  login(email: $email, password: $password) {
    token
    message
    user {
      id
      email
      name
    }
  }
}`

const registerMutation = `
mutation Register($name: String!, $email: String!, $password: String!) {
  register(name: $name, email: $email, password: $password) {
    token
    message
    user {
      id
      email
      name
    }
  }
}`

const uploadReceiptMutation = `
mutation UploadReceipt($file: Upload!, $category: String) {
  uploadReceipt(file: $file, category: $category) {
    message
    receipt {
      storeName
      dateOfPurchase
      totalAmount
      items {
        name
        price
      }
    }
  }
}`

const receiptsQuery = `
query GetReceipts($page: Int!, $limit: Int!, $category: String) {
  receipts(page: $page, limit: $limit, category: $category) {
    message
    data {
      receipts {
        id
        storeName
        dateOfPurchase
        totalAmount
        category
        items {
          id
          name
          price
        }
      }
      totalCount
      totalPages
      currentPage
    }
  }
}`

const receiptQuery = `
query GetSingleReceipt($id: ID!) {
  receipt(id: $id) {
    message
    receipt {
      id
      storeName
      dateOfPurchase
      totalAmount
      category
      items {
        id
        name
        price
      }
      user {
        id
        name
        email
      }
    }
  }
}`
